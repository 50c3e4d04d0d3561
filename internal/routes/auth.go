package routes

import (
	"github.com/captaindev404/prd-tools-sub000/internal/handlers"
	"github.com/captaindev404/prd-tools-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")

	auth.POST("/register", middleware.AuthRateLimit(), handlers.Register)
	auth.POST("/login", middleware.AuthRateLimit(), handlers.Login)
	auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
}
