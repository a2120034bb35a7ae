package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
)

type AuthenticatedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserLookup resolves a user id taken from a verified token.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

const TokenCookie = "token"

func tokenFromRequest(ctx *gin.Context) (string, string) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", "Authorization header format must be Bearer {token}"
		}

		return parts[1], ""
	}

	if cookie, err := ctx.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, ""
	}

	return "", "Authorization token is required"
}

func AuthMiddleware(users UserLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, problem := tokenFromRequest(ctx)

		if problem != "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		userID, err := auth.UserIDFromToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}
