package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/gamification"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/pkg/logger"
)

// NotificationSink turns gamification events into in-app notifications.
type NotificationSink struct{}

func NewNotificationSink() *NotificationSink {
	return &NotificationSink{}
}

func (s *NotificationSink) Publish(ctx context.Context, event gamification.Event) {
	notification := models.Notification{
		UserID: event.UserID,
	}

	switch event.Type {
	case gamification.EventLevelUp:
		notification.Type = models.NotificationLevelUp
		notification.Title = "Level up!"
		notification.Body = fmt.Sprintf("You reached level %v.", event.Payload["level"])
	case gamification.EventAchievementEarned:
		notification.Type = models.NotificationAchievementEarned
		notification.Title = "Achievement earned"
		notification.Body = fmt.Sprintf("You earned %q.", event.Payload["name"])
	default:
		logger.Warn().Str("type", string(event.Type)).Msg("Unknown gamification event type")
		return
	}

	if raw, err := json.Marshal(event.Payload); err == nil {
		notification.Payload = string(raw)
	}

	if err := database.DB.WithContext(ctx).Create(&notification).Error; err != nil {
		logger.Error().Err(err).
			Str("user_id", event.UserID).
			Str("type", string(event.Type)).
			Msg("Failed to create notification")
	}
}

// NotifyStatusChange tells a feedback author their item moved to a new status.
func NotifyStatusChange(userID, feedbackID, title string, status models.FeedbackStatus) {
	notification := models.Notification{
		UserID:  userID,
		Type:    models.NotificationStatusChange,
		Title:   "Feedback status updated",
		Body:    fmt.Sprintf("%q is now %s.", title, status),
		Payload: fmt.Sprintf(`{"feedbackId":%q,"status":%q}`, feedbackID, status),
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create status notification")
	}
}
