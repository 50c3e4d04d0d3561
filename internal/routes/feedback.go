package routes

import (
	"github.com/captaindev404/prd-tools-sub000/internal/handlers"
	"github.com/captaindev404/prd-tools-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterFeedbackRoutes(r *gin.RouterGroup) {
	feedback := r.Group("/feedback")

	// Public view (optional auth for per-user vote state)
	feedback.GET("", middleware.OptionalAuthMiddleware(), handlers.GetFeedback)

	protected := feedback.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", middleware.WriteRateLimit(), handlers.CreateFeedback)
		protected.POST("/:id/vote", handlers.VoteFeedback)
		protected.DELETE("/:id/vote", handlers.UnvoteFeedback)
	}

	admin := feedback.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.PATCH("/:id/status", handlers.UpdateFeedbackStatus)
	}
}
