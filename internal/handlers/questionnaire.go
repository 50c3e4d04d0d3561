package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/gamification"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListQuestionnaires GET /questionnaires
func ListQuestionnaires(c *gin.Context) {
	var questionnaires []models.Questionnaire
	if err := database.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&questionnaires).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questionnaires"})
		return
	}

	// Mark which ones the current user already completed
	completed := map[string]bool{}
	if userID := c.GetString("userId"); userID != "" {
		var done []string
		database.DB.Model(&models.QuestionnaireResponse{}).
			Where("user_id = ?", userID).
			Pluck("questionnaire_id", &done)
		for _, id := range done {
			completed[id] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"questionnaires": questionnaires, "completed": completed})
}

// GetQuestionnaire GET /questionnaires/:id
func GetQuestionnaire(c *gin.Context) {
	var questionnaire models.Questionnaire
	err := database.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&questionnaire, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Questionnaire not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionnaire": questionnaire})
}

// SubmitResponse POST /questionnaires/:id/responses
func SubmitResponse(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	questionnaireID := c.Param("id")

	var questionnaire models.Questionnaire
	if err := database.DB.First(&questionnaire, "id = ?", questionnaireID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Questionnaire not found"})
		return
	}
	if !questionnaire.IsActive {
		c.JSON(http.StatusGone, gin.H{"error": "Questionnaire is closed"})
		return
	}

	var input struct {
		Answers map[string]string `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := json.Marshal(input.Answers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answers"})
		return
	}

	// Unique index on (user_id, questionnaire_id) rejects repeats.
	response := models.QuestionnaireResponse{
		QuestionnaireID: questionnaireID,
		UserID:          userID,
		Answers:         string(raw),
	}
	if err := database.DB.Create(&response).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already completed this questionnaire"})
		return
	}

	award, newAchievements := services.TrackAction(c.Request.Context(), userID, gamification.ActionQuestionnaireCompleted, gamification.AwardOptions{
		ResourceID:   response.ID,
		ResourceType: "questionnaire_response",
	})

	c.JSON(http.StatusCreated, gin.H{
		"response":        response,
		"award":           award,
		"newAchievements": newAchievements,
	})
}
