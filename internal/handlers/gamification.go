package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/gamification"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMyPoints GET /gamification/me
func GetMyPoints(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var aggregate models.UserPoints
	err := database.DB.First(&aggregate, "user_id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch points"})
			return
		}
		// No awards yet: default projection
		aggregate = models.UserPoints{
			UserID:             userID,
			Level:              1,
			NextLevelThreshold: gamification.DefaultLevelTable.NextThreshold(1),
		}
	}

	streak, err := services.Points.ConsecutiveDays(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute streak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points":          aggregate,
		"consecutiveDays": streak,
	})
}

// GetAchievements GET /gamification/achievements
//
// Returns the catalog with the current user's progress. Hidden achievements
// are excluded until earned.
func GetAchievements(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var definitions []models.Achievement
	if err := database.DB.Order("category, threshold").Find(&definitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	var progress []models.UserAchievement
	database.DB.Where("user_id = ?", userID).Find(&progress)
	progressByID := make(map[string]models.UserAchievement, len(progress))
	for _, p := range progress {
		progressByID[p.AchievementID] = p
	}

	type achievementView struct {
		models.Achievement
		Progress int        `json:"progress"`
		EarnedAt *time.Time `json:"earnedAt"`
	}

	views := make([]achievementView, 0, len(definitions))
	for _, definition := range definitions {
		p, tracked := progressByID[definition.ID]
		earned := tracked && p.EarnedAt != nil
		if definition.Hidden && !earned {
			continue
		}
		view := achievementView{Achievement: definition}
		if tracked {
			view.Progress = p.Progress
			view.EarnedAt = p.EarnedAt
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"achievements": views})
}

// GetLeaderboard GET /gamification/leaderboard
func GetLeaderboard(c *gin.Context) {
	entries, err := services.GetLeaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
