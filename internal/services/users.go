package services

import (
	"context"
	"errors"
	"strings"

	"github.com/monocle-dev/taskboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned when an email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

type UserService struct {
	db *gorm.DB
}

func NewUserService(conn *gorm.DB) *UserService {
	return &UserService{db: conn}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, invalid("name is required")
	}
	if email == "" {
		return nil, invalid("email is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	conn := s.db.WithContext(ctx)

	var existing models.User
	err := conn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, invalid("email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("find user", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := conn.Create(&user).Error; err != nil {
		return nil, storeErr("create user", err)
	}

	return &user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, storeErr("find user", err)
	}

	return &user, nil
}
