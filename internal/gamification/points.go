package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/pkg/logger"
)

var (
	// ErrUnknownAction is returned when Award is called with an action that
	// has no entry in the static table. Never awards zero points silently.
	ErrUnknownAction = errors.New("gamification: unknown action")

	// ErrBonusRequired is returned when badge_earned is awarded without an
	// explicit bonus value.
	ErrBonusRequired = errors.New("gamification: badge_earned requires a bonus override")
)

// AwardOptions carries the optional parts of an award. ResourceID doubles as
// the caller-side idempotency key: callers retrying an unknown-outcome award
// must not re-submit the same (user, action, resource) triple; the engine
// itself appends unconditionally.
type AwardOptions struct {
	ResourceID    string
	ResourceType  string
	BonusOverride *int // point value for badge_earned
	Metadata      map[string]string
}

type AwardResult struct {
	PointsAwarded int  `json:"pointsAwarded"`
	TotalPoints   int  `json:"totalPoints"`
	Level         int  `json:"level"`
	LeveledUp     bool `json:"leveledUp"`
}

// Engine converts named actions into ledger entries and aggregate updates.
// It is safe for concurrent use; all shared-row mutations go through the
// store's atomic primitives.
type Engine struct {
	store  Store
	sink   EventSink
	levels LevelTable
}

func NewEngine(store Store, sink EventSink) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{store: store, sink: sink, levels: DefaultLevelTable}
}

// Award appends a ledger entry for the action, atomically applies the
// increments to the user's aggregate and raises the level when the new total
// crosses a threshold.
//
// The ledger write comes first and is authoritative: if the aggregate update
// fails afterwards the entry stands and a reconciliation pass can rebuild
// the aggregate from the ledger. No rollback is attempted.
func (e *Engine) Award(ctx context.Context, userID string, action Action, opts AwardOptions) (*AwardResult, error) {
	points, category, err := e.resolve(action, opts)
	if err != nil {
		return nil, err
	}

	entry := &models.PointEntry{
		UserID:       userID,
		Points:       points,
		Category:     category,
		Action:       string(action),
		ResourceID:   opts.ResourceID,
		ResourceType: opts.ResourceType,
	}
	if len(opts.Metadata) > 0 {
		raw, err := json.Marshal(opts.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode award metadata: %w", err)
		}
		entry.Metadata = string(raw)
	}

	if err := e.store.AppendLedgerEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	if err := e.store.UpsertAggregateWithIncrement(ctx, userID, category, points); err != nil {
		// Ledger row already stands; surface as retryable for reconciliation.
		return nil, fmt.Errorf("update aggregate: %w", err)
	}

	aggregate, err := e.store.ReadAggregate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read aggregate: %w", err)
	}

	result := &AwardResult{
		PointsAwarded: points,
		TotalPoints:   aggregate.TotalPoints,
		Level:         aggregate.Level,
	}

	newLevel := e.levels.LevelFor(aggregate.TotalPoints)
	if newLevel > aggregate.Level {
		raised, err := e.store.RaiseLevel(ctx, userID, newLevel, e.levels.NextThreshold(newLevel))
		if err != nil {
			return nil, fmt.Errorf("raise level: %w", err)
		}
		result.Level = newLevel
		if raised {
			// Only the award that won the conditional update reports the
			// level-up; concurrent losers see the new level without the flag.
			result.LeveledUp = true
			e.sink.Publish(ctx, Event{
				UserID: userID,
				Type:   EventLevelUp,
				Payload: map[string]interface{}{
					"level":       newLevel,
					"totalPoints": aggregate.TotalPoints,
				},
			})
			logger.Info().
				Str("user_id", userID).
				Int("level", newLevel).
				Int("total_points", aggregate.TotalPoints).
				Msg("User leveled up")
		}
	}

	return result, nil
}

func (e *Engine) resolve(action Action, opts AwardOptions) (int, models.PointCategory, error) {
	if action == ActionBadgeEarned {
		if opts.BonusOverride == nil {
			return 0, "", ErrBonusRequired
		}
		return *opts.BonusOverride, models.PointCategoryBonus, nil
	}
	rule, ok := actionTable[action]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return rule.Points, rule.Category, nil
}
