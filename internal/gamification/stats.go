package gamification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

// StatsBuilder assembles the UserStatsSnapshot the rule engine consumes. It
// gathers activity counts from the wider application, reads the aggregate
// projection and asks the engine for the current streak.
type StatsBuilder struct {
	db             *gorm.DB
	engine         *Engine
	earlyUserLimit int // first N signups count as early users
}

func NewStatsBuilder(db *gorm.DB, engine *Engine, earlyUserLimit int) *StatsBuilder {
	return &StatsBuilder{db: db, engine: engine, earlyUserLimit: earlyUserLimit}
}

func (b *StatsBuilder) Build(ctx context.Context, userID string) (*UserStatsSnapshot, error) {
	stats := &UserStatsSnapshot{Level: 1}

	aggregate := &models.UserPoints{}
	err := b.db.WithContext(ctx).First(aggregate, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		stats.Level = aggregate.Level
		stats.TotalPoints = aggregate.TotalPoints
	}

	var feedbackCount int64
	b.db.WithContext(ctx).Model(&models.Feedback{}).Where("user_id = ?", userID).Count(&feedbackCount)
	stats.FeedbackCount = int(feedbackCount)

	var voteCount int64
	b.db.WithContext(ctx).Model(&models.FeedbackVote{}).Where("user_id = ?", userID).Count(&voteCount)
	stats.VoteCount = int(voteCount)

	var responseCount int64
	b.db.WithContext(ctx).Model(&models.QuestionnaireResponse{}).Where("user_id = ?", userID).Count(&responseCount)
	stats.QuestionnaireCount = int(responseCount)

	streak, err := b.engine.ConsecutiveDays(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	stats.ConsecutiveDays = streak

	stats.EarlyUser = b.isEarlyUser(ctx, userID)
	stats.AllBadges = b.hasAllBadges(ctx, userID)

	return stats, nil
}

// isEarlyUser checks whether the user is among the first N signups, by
// signup-order rank rather than a stored flag.
func (b *StatsBuilder) isEarlyUser(ctx context.Context, userID string) bool {
	if b.earlyUserLimit <= 0 {
		return false
	}
	var rank int64
	b.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at <= (SELECT created_at FROM users WHERE id = ?)", userID).
		Count(&rank)
	return rank > 0 && rank <= int64(b.earlyUserLimit)
}

// hasAllBadges reports whether every achievement outside the all_badges
// meta-requirement has been earned.
func (b *StatsBuilder) hasAllBadges(ctx context.Context, userID string) bool {
	var required int64
	b.db.WithContext(ctx).Model(&models.Achievement{}).
		Where("requirement != ?", models.RequireAllBadges).
		Count(&required)
	if required == 0 {
		return false
	}

	var earned int64
	b.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ? AND user_achievements.earned_at IS NOT NULL", userID).
		Where("achievements.requirement != ?", models.RequireAllBadges).
		Count(&earned)
	return earned >= required
}
