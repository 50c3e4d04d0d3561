package gamification

import "context"

type EventType string

const (
	EventLevelUp           EventType = "level_up"
	EventAchievementEarned EventType = "achievement_earned"
)

// Event is handed to collaborators (notification creation, UI) after the
// fact; publishing is fire-and-forget from the engine's point of view.
type Event struct {
	UserID  string
	Type    EventType
	Payload map[string]interface{}
}

type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, event Event) {}
