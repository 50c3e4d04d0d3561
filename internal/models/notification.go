package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLevelUp           NotificationType = "LEVEL_UP"
	NotificationAchievementEarned NotificationType = "ACHIEVEMENT_EARNED"
	NotificationStatusChange      NotificationType = "STATUS_CHANGE"
)

type Notification struct {
	ID      string           `gorm:"primaryKey;type:text" json:"id"`
	UserID  string           `gorm:"index" json:"userId"`
	Type    NotificationType `gorm:"type:text;not null" json:"type"`
	Title   string           `json:"title"`
	Body    string           `gorm:"type:text" json:"body"`
	Payload string           `gorm:"type:text" json:"payload"` // JSON
	IsRead  bool             `gorm:"default:false" json:"isRead"`

	CreatedAt time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
