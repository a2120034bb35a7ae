package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/middleware"
	log "github.com/sirupsen/logrus"
)

func NewRouter(h *handlers.Handler, users middleware.UserLookup, origins []string, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireUser := middleware.AuthMiddleware(users)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.CreateUser)
			auth.POST("/login", h.LoginUser)
			auth.POST("/logout", h.LogoutUser)
			auth.GET("/me", requireUser, h.Me)
		}

		boards := api.Group("/boards", requireUser)
		{
			boards.POST("", h.CreateBoard)
			boards.GET("", h.ListBoards)
			boards.GET("/:id", h.GetBoard)
			boards.PUT("/:id", h.UpdateBoard)
			boards.DELETE("/:id", h.DeleteBoard)

			// Membership endpoints
			boards.POST("/:id/members", h.AddMember)
			boards.DELETE("/:id/members/:userId", h.RemoveMember)
		}

		lists := api.Group("/lists", requireUser)
		{
			lists.POST("", h.CreateList)
			lists.PUT("/:id", h.UpdateList)
			lists.PUT("/:id/move", h.MoveList)
			lists.DELETE("/:id", h.DeleteList)
		}

		cards := api.Group("/cards", requireUser)
		{
			cards.POST("", h.CreateCard)
			cards.PUT("/:id", h.UpdateCard)
			cards.PUT("/:id/move", h.MoveCard)
			cards.DELETE("/:id", h.DeleteCard)
		}
	}

	return r
}
