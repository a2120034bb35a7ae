package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler carries the dependencies of the HTTP handlers.
type Handler struct {
	boards *services.BoardService
	users  *services.UserService
	db     *gorm.DB
	logger *log.Logger

	// Domain is set on the session cookie.
	Domain string
	// SecureCookies marks the session cookie Secure with SameSite=None.
	SecureCookies bool
}

func New(conn *gorm.DB, boards *services.BoardService, users *services.UserService, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Handler{
		boards:        boards,
		users:         users,
		db:            conn,
		logger:        logger,
		SecureCookies: true,
	}
}

// respondError maps service errors onto HTTP statuses. Store failures are
// logged and reported without detail.
func (h *Handler) respondError(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, services.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("op", op).Error("request failed")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
}
