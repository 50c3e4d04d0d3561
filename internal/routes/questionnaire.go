package routes

import (
	"github.com/captaindev404/prd-tools-sub000/internal/handlers"
	"github.com/captaindev404/prd-tools-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterQuestionnaireRoutes(r *gin.RouterGroup) {
	questionnaires := r.Group("/questionnaires")
	questionnaires.Use(middleware.AuthMiddleware())
	{
		questionnaires.GET("", handlers.ListQuestionnaires)
		questionnaires.GET("/:id", handlers.GetQuestionnaire)
		questionnaires.POST("/:id/responses", middleware.WriteRateLimit(), handlers.SubmitResponse)
	}
}
