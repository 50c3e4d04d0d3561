package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/gamification"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/internal/services"
	"github.com/captaindev404/prd-tools-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateFeedback handles posting new feedback
func CreateFeedback(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// 1 message per 30 seconds
	allowed, _ := database.CheckRateLimit(userID, 1, 30*time.Second)
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "You're submitting too fast. Please wait 30 seconds."})
		return
	}

	var input struct {
		Title    string                  `json:"title" binding:"required,max=120"`
		Content  string                  `json:"content" binding:"required,max=2000"`
		Category models.FeedbackCategory `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback := models.Feedback{
		UserID:   userID,
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
	}
	if feedback.Category == "" {
		feedback.Category = models.CategoryOther
	}

	if err := database.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	database.DB.Preload("User").First(&feedback, "id = ?", feedback.ID)

	go database.CacheInvalidate("feedback:latest*")

	// Best-effort: the submission succeeds even if awarding fails.
	award, newAchievements := services.TrackAction(c.Request.Context(), userID, gamification.ActionFeedbackSubmitted, gamification.AwardOptions{
		ResourceID:   feedback.ID,
		ResourceType: "feedback",
	})

	c.JSON(http.StatusCreated, gin.H{
		"feedback":        feedback,
		"award":           award,
		"newAchievements": newAchievements,
	})
}

// GetFeedback returns feedback list (paginated, sorted)
func GetFeedback(c *gin.Context) {
	sort := c.DefaultQuery("sort", "latest")
	offset := c.DefaultQuery("offset", "0")
	cacheKey := "feedback:" + sort + ":offset:" + offset

	if offset == "0" {
		var cached []models.Feedback
		if err := database.CacheGet(cacheKey, &cached); err == nil {
			if userID := c.GetString("userId"); userID != "" {
				markVotedFeedback(userID, cached)
			}
			c.JSON(http.StatusOK, gin.H{"data": cached, "source": "cache"})
			return
		}
	}

	var items []models.Feedback
	query := database.DB.Preload("User").Model(&models.Feedback{}).
		Where("is_hidden = ?", false)

	if sort == "top" {
		query = query.Order("is_pinned DESC, upvotes DESC, created_at DESC")
	} else {
		query = query.Order("is_pinned DESC, created_at DESC")
	}

	offsetInt, _ := strconv.Atoi(offset)
	query = query.Limit(50).Offset(offsetInt)

	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	if userID := c.GetString("userId"); userID != "" {
		markVotedFeedback(userID, items)
	}

	if offset == "0" {
		go database.CacheSet(cacheKey, items, 60*time.Second)
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func markVotedFeedback(userID string, items []models.Feedback) {
	if len(items) == 0 {
		return
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var voted []string
	database.DB.Model(&models.FeedbackVote{}).
		Where("user_id = ? AND feedback_id IN ?", userID, ids).
		Pluck("feedback_id", &voted)

	votedSet := make(map[string]bool, len(voted))
	for _, id := range voted {
		votedSet[id] = true
	}
	for i := range items {
		items[i].HasVoted = votedSet[items[i].ID]
	}
}

// VoteFeedback POST /feedback/:id/vote
func VoteFeedback(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feedbackID := c.Param("id")
	if !utils.IsUUID(feedbackID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	var feedback models.Feedback
	if err := database.DB.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}
	if feedback.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot vote for your own feedback"})
		return
	}

	// The unique index on (user_id, feedback_id) rejects double votes.
	vote := models.FeedbackVote{UserID: userID, FeedbackID: feedbackID}
	if err := database.DB.Create(&vote).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already voted"})
		return
	}

	database.DB.Model(&models.Feedback{}).
		Where("id = ?", feedbackID).
		Update("upvotes", gorm.Expr("upvotes + 1"))

	go database.CacheInvalidate("feedback:*")

	award, newAchievements := services.TrackAction(c.Request.Context(), userID, gamification.ActionVoteCast, gamification.AwardOptions{
		ResourceID:   feedbackID,
		ResourceType: "feedback",
	})

	// Author earns quality points for receiving a vote.
	services.TrackAction(c.Request.Context(), feedback.UserID, gamification.ActionVoteReceived, gamification.AwardOptions{
		ResourceID:   vote.ID,
		ResourceType: "feedback_vote",
	})

	c.JSON(http.StatusCreated, gin.H{
		"award":           award,
		"newAchievements": newAchievements,
	})
}

// UnvoteFeedback DELETE /feedback/:id/vote
//
// Removing a vote does not claw points back: the ledger is append-only and
// aggregates are never decremented.
func UnvoteFeedback(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feedbackID := c.Param("id")

	result := database.DB.Where("user_id = ? AND feedback_id = ?", userID, feedbackID).Delete(&models.FeedbackVote{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
		return
	}

	database.DB.Model(&models.Feedback{}).
		Where("id = ? AND upvotes > 0", feedbackID).
		Update("upvotes", gorm.Expr("upvotes - 1"))

	go database.CacheInvalidate("feedback:*")

	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// UpdateFeedbackStatus PATCH /feedback/:id/status (admin)
func UpdateFeedbackStatus(c *gin.Context) {
	feedbackID := c.Param("id")

	var input struct {
		Status models.FeedbackStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Status {
	case models.StatusOpen, models.StatusReviewing, models.StatusPlanned, models.StatusShipped, models.StatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var feedback models.Feedback
	if err := database.DB.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if err := database.DB.Model(&feedback).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	go database.CacheInvalidate("feedback:*")
	services.NotifyStatusChange(feedback.UserID, feedback.ID, feedback.Title, input.Status)

	// Shipped feedback earns its author a quality bonus.
	if input.Status == models.StatusShipped {
		services.TrackAction(c.Request.Context(), feedback.UserID, gamification.ActionFeedbackShipped, gamification.AwardOptions{
			ResourceID:   feedback.ID,
			ResourceType: "feedback",
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}
