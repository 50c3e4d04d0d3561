package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointCategory string

const (
	PointCategoryFeedback PointCategory = "feedback"
	PointCategoryVoting   PointCategory = "voting"
	PointCategoryResearch PointCategory = "research"
	PointCategoryQuality  PointCategory = "quality"
	PointCategoryBonus    PointCategory = "bonus"
)

// PointEntry is one row of the append-only points ledger. Rows are written
// once per award and never updated or deleted; the ledger is the source of
// truth from which the UserPoints aggregate can be rebuilt.
type PointEntry struct {
	ID           string        `gorm:"primaryKey;type:text" json:"id"`
	UserID       string        `gorm:"index:idx_point_entries_user_date,priority:1;not null" json:"userId"`
	Points       int           `gorm:"not null" json:"points"`
	Category     PointCategory `gorm:"type:text;not null" json:"category"`
	Action       string        `gorm:"type:text;not null" json:"action"`
	ResourceID   string        `gorm:"type:text" json:"resourceId,omitempty"`
	ResourceType string        `gorm:"type:text" json:"resourceType,omitempty"`
	Metadata     string        `gorm:"type:text" json:"metadata,omitempty"` // opaque JSON
	CreatedAt    time.Time     `gorm:"index:idx_point_entries_user_date,priority:2" json:"createdAt"`
}

func (PointEntry) TableName() string {
	return "point_entries"
}

func (p *PointEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return
}

// UserPoints is the per-user aggregate projection over the ledger. It is
// created lazily on first award and only ever mutated through atomic
// increments; Level never decreases. Bonus points (badge_earned) have no
// category column, so the category fields always sum to at most TotalPoints.
type UserPoints struct {
	UserID string `gorm:"primaryKey;type:text" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	TotalPoints    int `gorm:"default:0" json:"totalPoints"`
	FeedbackPoints int `gorm:"default:0" json:"feedbackPoints"`
	VotingPoints   int `gorm:"default:0" json:"votingPoints"`
	ResearchPoints int `gorm:"default:0" json:"researchPoints"`
	QualityPoints  int `gorm:"default:0" json:"qualityPoints"`

	// Rolling windows, reset by an external scheduler.
	WeeklyPoints  int `gorm:"default:0" json:"weeklyPoints"`
	MonthlyPoints int `gorm:"default:0" json:"monthlyPoints"`

	Level              int `gorm:"default:1" json:"level"`
	NextLevelThreshold int `gorm:"default:0" json:"nextLevelThreshold"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserPoints) TableName() string {
	return "user_points"
}
