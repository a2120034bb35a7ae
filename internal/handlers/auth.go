package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

const sessionMaxAge = 60 * 60 * 24 * 7

func (h *Handler) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if h.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.Domain,
		MaxAge:   maxAge,
		Secure:   h.SecureCookies,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

func (h *Handler) issueSession(ctx *gin.Context, status int, user *models.User) {
	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		h.respondError(ctx, "generate token", err)
		return
	}

	h.setSessionCookie(ctx, token, sessionMaxAge)

	ctx.JSON(status, gin.H{
		"token": token,
		"user": types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := h.users.Register(ctx.Request.Context(), body.Name, body.Email, body.Password)

	if err != nil {
		h.respondError(ctx, "register", err)
		return
	}

	h.issueSession(ctx, http.StatusCreated, user)
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := h.users.Authenticate(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		h.respondError(ctx, "login", err)
		return
	}

	h.issueSession(ctx, http.StatusOK, user)
}

func (h *Handler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}

func (h *Handler) LogoutUser(ctx *gin.Context) {
	h.setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
