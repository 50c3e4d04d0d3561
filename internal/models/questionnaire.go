package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	QuestionText   QuestionKind = "TEXT"
	QuestionChoice QuestionKind = "CHOICE"
	QuestionScale  QuestionKind = "SCALE"
)

type Questionnaire struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	Questions   []Question `gorm:"foreignKey:QuestionnaireID" json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (q *Questionnaire) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return
}

type Question struct {
	ID              string       `gorm:"primaryKey;type:text" json:"id"`
	QuestionnaireID string       `gorm:"index" json:"questionnaireId"`
	Position        int          `gorm:"default:0" json:"position"`
	Text            string       `gorm:"type:text;not null" json:"text"`
	Kind            QuestionKind `gorm:"type:text;default:'TEXT'" json:"kind"`
	Options         string       `gorm:"type:text" json:"options"` // JSON array for CHOICE questions
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return
}

// QuestionnaireResponse is one user's completed questionnaire. One response
// per user per questionnaire.
type QuestionnaireResponse struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	QuestionnaireID string    `gorm:"uniqueIndex:idx_user_questionnaire" json:"questionnaireId"`
	UserID          string    `gorm:"uniqueIndex:idx_user_questionnaire" json:"userId"`
	Answers         string    `gorm:"type:text" json:"answers"` // JSON: questionID -> answer
	CreatedAt       time.Time `json:"createdAt"`
}

func (r *QuestionnaireResponse) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
