package gamification

import (
	"context"
	"fmt"
	"time"
)

// maxStreakScanDays bounds the backward scan so it always terminates. A
// streak that genuinely exceeds the bound is reported as the bound itself,
// i.e. the return value is a lower bound on the true streak.
const maxStreakScanDays = 365

// ConsecutiveDays counts the run of consecutive calendar days with at least
// one ledger entry, ending at asOf-1, plus one more if asOf's own day is
// active. Day boundaries follow asOf's location. A user with history
// yesterday but nothing yet today keeps the streak; the streak breaks only
// after a full day without activity. No history returns 0.
func (e *Engine) ConsecutiveDays(ctx context.Context, userID string, asOf time.Time) (int, error) {
	since := asOf.AddDate(0, 0, -(maxStreakScanDays + 1))
	entries, err := e.store.ReadLedgerSince(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("read ledger for streak: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	loc := asOf.Location()
	activeDays := make(map[string]bool, len(entries))
	for _, entry := range entries {
		activeDays[entry.CreatedAt.In(loc).Format("2006-01-02")] = true
	}

	streak := 0
	if activeDays[asOf.In(loc).Format("2006-01-02")] {
		streak = 1
	}
	for back := 1; back <= maxStreakScanDays; back++ {
		day := asOf.AddDate(0, 0, -back).In(loc).Format("2006-01-02")
		if !activeDays[day] {
			break
		}
		streak++
	}
	return streak, nil
}
