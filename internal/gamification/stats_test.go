package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

func TestStatsBuilderAssemblesSnapshot(t *testing.T) {
	engine, _, _, db := newTestEngine(t)
	builder := NewStatsBuilder(db, engine, 1000)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{ID: "user1", Username: "alice", Email: "alice@example.com"}).Error)
	require.NoError(t, db.Create(&models.Feedback{UserID: "user1", Title: "t", Content: "c"}).Error)
	require.NoError(t, db.Create(&models.Feedback{UserID: "user1", Title: "t2", Content: "c2"}).Error)
	require.NoError(t, db.Create(&models.FeedbackVote{UserID: "user1", FeedbackID: "other"}).Error)
	require.NoError(t, db.Create(&models.QuestionnaireResponse{UserID: "user1", QuestionnaireID: "q1", Answers: "{}"}).Error)

	// Points awarded today feed level/total and a 1-day streak.
	_, err := engine.Award(ctx, "user1", ActionFeedbackSubmitted, AwardOptions{})
	require.NoError(t, err)

	stats, err := builder.Build(ctx, "user1")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 15, stats.TotalPoints)
	assert.Equal(t, 2, stats.FeedbackCount)
	assert.Equal(t, 1, stats.VoteCount)
	assert.Equal(t, 1, stats.QuestionnaireCount)
	assert.Equal(t, 1, stats.ConsecutiveDays)
	assert.True(t, stats.EarlyUser) // first signup with a 1000-user window
	assert.False(t, stats.AllBadges)
}

func TestStatsBuilderDefaultsWithoutAggregate(t *testing.T) {
	engine, _, _, db := newTestEngine(t)
	builder := NewStatsBuilder(db, engine, 0)

	stats, err := builder.Build(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, 0, stats.ConsecutiveDays)
	assert.False(t, stats.EarlyUser) // early-user window disabled
}

func TestStatsBuilderAllBadges(t *testing.T) {
	engine, store, sink, db := newTestEngine(t)
	builder := NewStatsBuilder(db, engine, 0)
	rules := NewRuleEngine(store, engine, sink)
	ctx := context.Background()

	seedAchievement(t, db, models.Achievement{
		Key:         "first_feedback",
		Requirement: models.RequireFeedbackCount,
		Threshold:   1,
		Points:      10,
	})
	seedAchievement(t, db, models.Achievement{
		Key:         "completionist",
		Requirement: models.RequireAllBadges,
		Threshold:   1,
		Points:      500,
		Hidden:      true,
	})

	_, err := rules.Evaluate(ctx, "user1", UserStatsSnapshot{Level: 1, FeedbackCount: 1})
	require.NoError(t, err)

	stats, err := builder.Build(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, stats.AllBadges)

	// The meta-achievement itself is earned on the next evaluation pass.
	earned, err := rules.Evaluate(ctx, "user1", *stats)
	require.NoError(t, err)
	assert.Equal(t, []string{"completionist"}, earned)
}

func TestStatsSnapshotIsPointInTime(t *testing.T) {
	engine, _, _, db := newTestEngine(t)
	builder := NewStatsBuilder(db, engine, 0)
	ctx := context.Background()

	stats, err := builder.Build(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPoints)

	_, err = engine.Award(ctx, "user1", ActionVoteCast, AwardOptions{})
	require.NoError(t, err)

	// The old snapshot is unchanged; a rebuild reflects the award.
	assert.Equal(t, 0, stats.TotalPoints)
	rebuilt, err := builder.Build(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 5, rebuilt.TotalPoints)
}
