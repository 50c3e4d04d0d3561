package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/pkg/logger"
)

// UserStatsSnapshot is the point-in-time view the rule engine evaluates
// against. It is assembled by the caller (see StatsBuilder) right before
// each Evaluate call and never persisted by the engine.
type UserStatsSnapshot struct {
	Level              int  `json:"level"`
	TotalPoints        int  `json:"totalPoints"`
	FeedbackCount      int  `json:"feedbackCount"`
	VoteCount          int  `json:"voteCount"`
	QuestionnaireCount int  `json:"questionnaireCount"`
	ConsecutiveDays    int  `json:"consecutiveDays"`
	EarlyUser          bool `json:"earlyUser"`
	AllBadges          bool `json:"allBadges"`
}

// RuleEngine evaluates the achievement catalog against user stats and
// awards each achievement at most once per user. Callers invoke Evaluate
// after every qualifying action; repeated calls with already-satisfied
// stats are cheap no-ops, and that idempotency is a hard contract: the
// earned transition is a single conditional write, so two racing Evaluate
// calls produce exactly one bonus award.
type RuleEngine struct {
	store  Store
	points *Engine
	sink   EventSink
}

func NewRuleEngine(store Store, points *Engine, sink EventSink) *RuleEngine {
	if sink == nil {
		sink = NopSink{}
	}
	return &RuleEngine{store: store, points: points, sink: sink}
}

// Evaluate checks every catalog entry against stats and returns the keys of
// achievements newly earned by this call. Per-achievement storage failures
// are logged and do not block the remaining entries; the first such error is
// returned alongside whatever was earned so the caller can retry.
func (r *RuleEngine) Evaluate(ctx context.Context, userID string, stats UserStatsSnapshot) ([]string, error) {
	definitions, err := r.store.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	var newlyEarned []string
	var firstErr error
	fail := func(key string, err error) {
		logger.Error().Err(err).Str("user_id", userID).Str("achievement", key).Msg("Achievement evaluation failed")
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, definition := range definitions {
		progress, err := r.store.ReadOrCreateProgress(ctx, userID, definition.ID)
		if err != nil {
			fail(definition.Key, err)
			continue
		}
		if progress.EarnedAt != nil {
			continue // already earned, permanent no-op
		}

		satisfied, current := evaluateRequirement(definition, stats)
		if !satisfied {
			if err := r.store.SaveProgress(ctx, userID, definition.ID, current); err != nil {
				fail(definition.Key, err)
			}
			continue
		}

		won, err := r.store.ConditionalSetEarned(ctx, userID, definition.ID, time.Now(), current)
		if err != nil {
			fail(definition.Key, err)
			continue
		}
		if !won {
			continue // a concurrent evaluator earned it first; not an error
		}

		bonus := definition.Points
		if _, err := r.points.Award(ctx, userID, ActionBadgeEarned, AwardOptions{
			ResourceID:    definition.ID,
			ResourceType:  "achievement",
			BonusOverride: &bonus,
		}); err != nil {
			// The earn already happened and must not be retried; the missing
			// bonus is reconciled from the progress row.
			fail(definition.Key, err)
		}

		r.sink.Publish(ctx, Event{
			UserID: userID,
			Type:   EventAchievementEarned,
			Payload: map[string]interface{}{
				"key":    definition.Key,
				"name":   definition.Name,
				"points": definition.Points,
			},
		})
		newlyEarned = append(newlyEarned, definition.Key)

		logger.Info().
			Str("user_id", userID).
			Str("achievement", definition.Key).
			Int("bonus", definition.Points).
			Msg("Achievement earned")
	}

	return newlyEarned, firstErr
}

// evaluateRequirement returns whether the definition is satisfied by stats
// and the current progress value for display. An unrecognized requirement
// kind is never satisfied; one bad catalog entry must not block the rest.
func evaluateRequirement(definition models.Achievement, stats UserStatsSnapshot) (bool, int) {
	boolToProgress := func(flag bool) int {
		if flag {
			return 1
		}
		return 0
	}

	switch definition.Requirement {
	case models.RequireConsecutiveDays:
		return stats.ConsecutiveDays >= definition.Threshold, stats.ConsecutiveDays
	case models.RequireLevel:
		return stats.Level >= definition.Threshold, stats.Level
	case models.RequireTotalPoints:
		return stats.TotalPoints >= definition.Threshold, stats.TotalPoints
	case models.RequireFeedbackCount:
		return stats.FeedbackCount >= definition.Threshold, stats.FeedbackCount
	case models.RequireVoteCount:
		return stats.VoteCount >= definition.Threshold, stats.VoteCount
	case models.RequireQuestionnaireCount:
		return stats.QuestionnaireCount >= definition.Threshold, stats.QuestionnaireCount
	case models.RequireEarlyUser:
		return stats.EarlyUser, boolToProgress(stats.EarlyUser)
	case models.RequireAllBadges:
		return stats.AllBadges, boolToProgress(stats.AllBadges)
	default:
		logger.Warn().
			Str("achievement", definition.Key).
			Str("requirement", string(definition.Requirement)).
			Msg("Unrecognized achievement requirement, treating as never satisfied")
		return false, 0
	}
}
