package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackCategory string

const (
	CategoryBug         FeedbackCategory = "BUG"
	CategoryUX          FeedbackCategory = "UX"
	CategoryFeature     FeedbackCategory = "FEATURE"
	CategoryPerformance FeedbackCategory = "PERFORMANCE"
	CategoryOther       FeedbackCategory = "OTHER"
)

// FeedbackStatus represents the lifecycle status of feedback
type FeedbackStatus string

const (
	StatusOpen      FeedbackStatus = "OPEN"
	StatusReviewing FeedbackStatus = "REVIEWING"
	StatusPlanned   FeedbackStatus = "PLANNED"
	StatusShipped   FeedbackStatus = "SHIPPED"
	StatusClosed    FeedbackStatus = "CLOSED"
)

type Feedback struct {
	ID       string           `gorm:"primaryKey;type:text" json:"id"`
	UserID   string           `gorm:"index" json:"userId"`
	User     User             `gorm:"foreignKey:UserID" json:"user"`
	Title    string           `gorm:"not null" json:"title"`
	Content  string           `gorm:"type:text;not null" json:"content"`
	Category FeedbackCategory `gorm:"type:text;default:'OTHER'" json:"category"`
	Upvotes  int              `gorm:"default:0" json:"upvotes"`

	Status   FeedbackStatus `gorm:"type:text;default:'OPEN'" json:"status"`
	IsPinned bool           `gorm:"default:false" json:"isPinned"` // Pin to top
	IsHidden bool           `gorm:"default:false" json:"isHidden"` // Hidden from public view

	CreatedAt time.Time `json:"createdAt"`

	// Virtual field for checking if current user voted
	HasVoted bool `gorm:"-" json:"hasVoted"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

// FeedbackVote is one user's upvote on one feedback item. The composite
// unique index is the duplicate-vote guard.
type FeedbackVote struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	UserID     string    `gorm:"uniqueIndex:idx_user_feedback" json:"userId"`
	FeedbackID string    `gorm:"uniqueIndex:idx_user_feedback" json:"feedbackId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (v *FeedbackVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}
