package routes

import (
	"github.com/captaindev404/prd-tools-sub000/internal/handlers"
	"github.com/captaindev404/prd-tools-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterGamificationRoutes(r *gin.RouterGroup) {
	gamification := r.Group("/gamification")

	// Leaderboard is public
	gamification.GET("/leaderboard", handlers.GetLeaderboard)

	protected := gamification.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", handlers.GetMyPoints)
		protected.GET("/achievements", handlers.GetAchievements)
	}
}
