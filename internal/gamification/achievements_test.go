package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

func seedAchievement(t *testing.T, db *gorm.DB, a models.Achievement) models.Achievement {
	t.Helper()
	require.NoError(t, db.Create(&a).Error)
	return a
}

func newTestRuleEngine(t *testing.T) (*RuleEngine, *Engine, *captureSink, *gorm.DB) {
	t.Helper()
	engine, store, sink, db := newTestEngine(t)
	rules := NewRuleEngine(store, engine, sink)
	return rules, engine, sink, db
}

func TestEvaluateAwardsOnceAndOnlyOnce(t *testing.T) {
	rules, _, sink, db := newTestRuleEngine(t)
	ctx := context.Background()

	seedAchievement(t, db, models.Achievement{
		Key:         "special_first_vote",
		Name:        "Opinionated",
		Category:    models.AchievementCategorySpecial,
		Requirement: models.RequireVoteCount,
		Threshold:   1,
		Points:      10,
	})

	earned, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, VoteCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"special_first_vote"}, earned)

	var aggregate models.UserPoints
	require.NoError(t, db.First(&aggregate, "user_id = ?", "user1").Error)
	assert.Equal(t, 10, aggregate.TotalPoints)

	// A later call with still-satisfying stats is a no-op.
	earned, err = rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, VoteCount: 5})
	require.NoError(t, err)
	assert.Empty(t, earned)

	require.NoError(t, db.First(&aggregate, "user_id = ?", "user1").Error)
	assert.Equal(t, 10, aggregate.TotalPoints)

	var bonusEntries int64
	db.Model(&models.PointEntry{}).Where("user_id = ? AND action = ?", "user1", string(ActionBadgeEarned)).Count(&bonusEntries)
	assert.EqualValues(t, 1, bonusEntries)

	assert.Len(t, sink.ofType(EventAchievementEarned), 1)
}

func TestEvaluatePersistsProgressWhenUnsatisfied(t *testing.T) {
	rules, _, _, db := newTestRuleEngine(t)
	ctx := context.Background()

	definition := seedAchievement(t, db, models.Achievement{
		Key:         "feedback_10",
		Requirement: models.RequireFeedbackCount,
		Threshold:   10,
		Points:      75,
	})

	earned, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, FeedbackCount: 4})
	require.NoError(t, err)
	assert.Empty(t, earned)

	var progress models.UserAchievement
	require.NoError(t, db.First(&progress, "user_id = ? AND achievement_id = ?", "user1", definition.ID).Error)
	assert.Equal(t, 4, progress.Progress)
	assert.Nil(t, progress.EarnedAt)
}

func TestEvaluateMalformedRequirementDoesNotBlockOthers(t *testing.T) {
	rules, _, _, db := newTestRuleEngine(t)
	ctx := context.Background()

	seedAchievement(t, db, models.Achievement{
		Key:         "broken_entry",
		Requirement: models.RequirementKind("not_a_requirement"),
		Threshold:   1,
		Points:      10,
	})
	seedAchievement(t, db, models.Achievement{
		Key:         "first_feedback",
		Requirement: models.RequireFeedbackCount,
		Threshold:   1,
		Points:      10,
	})

	earned, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, FeedbackCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_feedback"}, earned)
}

func TestEvaluateCohortFlags(t *testing.T) {
	rules, _, _, db := newTestRuleEngine(t)
	ctx := context.Background()

	seedAchievement(t, db, models.Achievement{
		Key:         "early_adopter",
		Requirement: models.RequireEarlyUser,
		Threshold:   1,
		Points:      50,
	})

	earned, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, EarlyUser: false})
	require.NoError(t, err)
	assert.Empty(t, earned)

	earned, err = rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, EarlyUser: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"early_adopter"}, earned)
}

func TestEvaluateStreakAndLevelRequirements(t *testing.T) {
	rules, _, _, db := newTestRuleEngine(t)
	ctx := context.Background()

	seedAchievement(t, db, models.Achievement{
		Key:         "streak_week",
		Requirement: models.RequireConsecutiveDays,
		Threshold:   7,
		Points:      50,
	})
	seedAchievement(t, db, models.Achievement{
		Key:         "milestone_level_5",
		Requirement: models.RequireLevel,
		Threshold:   5,
		Points:      50,
	})

	earned, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 5, ConsecutiveDays: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"milestone_level_5"}, earned)

	earned, err = rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 5, ConsecutiveDays: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"streak_week"}, earned)
}

func TestConditionalSetEarnedWinsOnce(t *testing.T) {
	_, _, _, db := newTestRuleEngine(t)
	store := NewGormStore(db)
	ctx := context.Background()

	definition := seedAchievement(t, db, models.Achievement{
		Key:         "first_feedback",
		Requirement: models.RequireFeedbackCount,
		Threshold:   1,
		Points:      10,
	})

	_, err := store.ReadOrCreateProgress(ctx, "user1", definition.ID)
	require.NoError(t, err)

	won, err := store.ConditionalSetEarned(ctx, "user1", definition.ID, time.Now(), 1)
	require.NoError(t, err)
	assert.True(t, won)

	// The losing side of the race sees success-without-action.
	won, err = store.ConditionalSetEarned(ctx, "user1", definition.ID, time.Now(), 1)
	require.NoError(t, err)
	assert.False(t, won)

	var progress models.UserAchievement
	require.NoError(t, db.First(&progress, "user_id = ? AND achievement_id = ?", "user1", definition.ID).Error)
	require.NotNil(t, progress.EarnedAt)
}

func TestEarnedAtNeverChanges(t *testing.T) {
	rules, _, _, db := newTestRuleEngine(t)
	ctx := context.Background()

	definition := seedAchievement(t, db, models.Achievement{
		Key:         "special_first_vote",
		Requirement: models.RequireVoteCount,
		Threshold:   1,
		Points:      10,
	})

	_, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, VoteCount: 1})
	require.NoError(t, err)

	var before models.UserAchievement
	require.NoError(t, db.First(&before, "user_id = ? AND achievement_id = ?", "user1", definition.ID).Error)
	require.NotNil(t, before.EarnedAt)

	_, err = rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, VoteCount: 9})
	require.NoError(t, err)

	var after models.UserAchievement
	require.NoError(t, db.First(&after, "user_id = ? AND achievement_id = ?", "user1", definition.ID).Error)
	require.NotNil(t, after.EarnedAt)
	assert.True(t, before.EarnedAt.Equal(*after.EarnedAt))
}
