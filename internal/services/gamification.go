package services

import (
	"context"

	"github.com/captaindev404/prd-tools-sub000/internal/config"
	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/gamification"
	"github.com/captaindev404/prd-tools-sub000/pkg/logger"
)

var (
	Points *gamification.Engine
	Rules  *gamification.RuleEngine
	Stats  *gamification.StatsBuilder
)

// InitGamification wires the engine onto the global DB connection with the
// notification sink. Call after database.Connect.
func InitGamification() {
	store := gamification.NewGormStore(database.DB)
	sink := NewNotificationSink()
	Points = gamification.NewEngine(store, sink)
	Rules = gamification.NewRuleEngine(store, Points, sink)
	Stats = gamification.NewStatsBuilder(database.DB, Points, config.AppConfig.EarlyUserLimit)
}

// TrackAction awards points for an action and re-evaluates achievements
// with a fresh stats snapshot. Best-effort by contract: failures are logged
// and must never block the user action that triggered them, so errors are
// swallowed here and partial results returned.
func TrackAction(ctx context.Context, userID string, action gamification.Action, opts gamification.AwardOptions) (*gamification.AwardResult, []string) {
	result, err := Points.Award(ctx, userID, action, opts)
	if err != nil {
		logger.Error().Err(err).
			Str("user_id", userID).
			Str("action", string(action)).
			Msg("Point award failed")
		return nil, nil
	}

	stats, err := Stats.Build(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Stats snapshot build failed")
		return result, nil
	}

	earned, err := Rules.Evaluate(ctx, userID, *stats)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Achievement evaluation incomplete")
	}
	return result, earned
}
