package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementCategory string

const (
	AchievementCategoryStreak    AchievementCategory = "STREAK"
	AchievementCategoryMilestone AchievementCategory = "MILESTONE"
	AchievementCategorySpecial   AchievementCategory = "SPECIAL"
)

// RequirementKind is the tagged variant for achievement requirements.
// Exactly one kind applies per achievement; Threshold carries the numeric
// payload for the counting kinds and is 1 for the boolean cohort kinds.
type RequirementKind string

const (
	RequireConsecutiveDays    RequirementKind = "consecutive_days"
	RequireLevel              RequirementKind = "level"
	RequireTotalPoints        RequirementKind = "total_points"
	RequireFeedbackCount      RequirementKind = "feedback_count"
	RequireVoteCount          RequirementKind = "vote_count"
	RequireQuestionnaireCount RequirementKind = "questionnaire_count"
	RequireEarlyUser          RequirementKind = "early_user"
	RequireAllBadges          RequirementKind = "all_badges"
)

// Achievement is a read-only catalog entry, seeded once at startup.
type Achievement struct {
	ID          string              `gorm:"primaryKey;type:text" json:"id"`
	Key         string              `gorm:"uniqueIndex;not null" json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `gorm:"type:text" json:"category"`

	Requirement RequirementKind `gorm:"type:text;not null" json:"requirement"`
	Threshold   int             `gorm:"default:1" json:"threshold"`

	Points int  `gorm:"default:0" json:"points"` // one-time bonus on earn
	Hidden bool `gorm:"default:false" json:"hidden"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// UserAchievement tracks one user's progress toward one achievement.
// EarnedAt transitions exactly once from NULL to a timestamp; the
// conditional update enforcing that is the at-most-once award guarantee.
type UserAchievement struct {
	UserID        string     `gorm:"primaryKey;type:text" json:"userId"`
	AchievementID string     `gorm:"primaryKey;type:text" json:"achievementId"`
	Progress      int        `gorm:"default:0" json:"progress"` // last-seen value for display
	EarnedAt      *time.Time `json:"earnedAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
