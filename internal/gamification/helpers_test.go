package gamification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

// setupTestDB opens a per-test in-memory SQLite DB. A single connection
// serializes statements, which SQLite needs for the concurrent tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Feedback{},
		&models.FeedbackVote{},
		&models.QuestionnaireResponse{},
		&models.PointEntry{},
		&models.UserPoints{},
		&models.Achievement{},
		&models.UserAchievement{},
	))
	return db
}

// captureSink records published events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Publish(ctx context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) ofType(eventType EventType) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Event
	for _, event := range s.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func newTestEngine(t *testing.T) (*Engine, *GormStore, *captureSink, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	store := NewGormStore(db)
	sink := &captureSink{}
	engine := NewEngine(store, sink)
	return engine, store, sink, db
}

func intPtr(v int) *int { return &v }
