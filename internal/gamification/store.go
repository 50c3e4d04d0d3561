package gamification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

// Store is the persistence contract the engine needs. The aggregate and
// progress mutations are conditional/atomic single statements; the engine
// never does a read-modify-write on shared rows.
type Store interface {
	// AppendLedgerEntry writes one immutable ledger row.
	AppendLedgerEntry(ctx context.Context, entry *models.PointEntry) error

	// UpsertAggregateWithIncrement creates the user's aggregate row with
	// defaults if absent and atomically adds points to the category column
	// (if any), total, weekly and monthly counters in a single statement.
	UpsertAggregateWithIncrement(ctx context.Context, userID string, category models.PointCategory, points int) error

	ReadAggregate(ctx context.Context, userID string) (*models.UserPoints, error)

	// RaiseLevel sets level and next threshold only if it increases the
	// stored level. Returns whether this call won the raise.
	RaiseLevel(ctx context.Context, userID string, level, nextThreshold int) (bool, error)

	// ReadLedgerSince returns the user's ledger entries created at or after
	// since, oldest first.
	ReadLedgerSince(ctx context.Context, userID string, since time.Time) ([]models.PointEntry, error)

	ListAchievements(ctx context.Context) ([]models.Achievement, error)

	ReadOrCreateProgress(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error)

	// SaveProgress updates the display snapshot for an unearned achievement.
	SaveProgress(ctx context.Context, userID, achievementID string, progress int) error

	// ConditionalSetEarned sets earned_at only if it is still NULL. Returns
	// whether this call won the transition; a lost race is not an error.
	ConditionalSetEarned(ctx context.Context, userID, achievementID string, at time.Time, progress int) (bool, error)
}

// categoryColumns maps ledger categories to aggregate columns. Bonus has no
// column on purpose: badge bonuses count toward the total only.
var categoryColumns = map[models.PointCategory]string{
	models.PointCategoryFeedback: "feedback_points",
	models.PointCategoryVoting:   "voting_points",
	models.PointCategoryResearch: "research_points",
	models.PointCategoryQuality:  "quality_points",
}

// GormStore implements Store on a gorm connection (Postgres in production,
// SQLite in tests).
type GormStore struct {
	db     *gorm.DB
	levels LevelTable
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, levels: DefaultLevelTable}
}

func (s *GormStore) AppendLedgerEntry(ctx context.Context, entry *models.PointEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) UpsertAggregateWithIncrement(ctx context.Context, userID string, category models.PointCategory, points int) error {
	fresh := models.UserPoints{
		UserID:             userID,
		TotalPoints:        points,
		WeeklyPoints:       points,
		MonthlyPoints:      points,
		Level:              1,
		NextLevelThreshold: s.levels.NextThreshold(1),
	}
	assignments := map[string]interface{}{
		"total_points":   gorm.Expr("total_points + ?", points),
		"weekly_points":  gorm.Expr("weekly_points + ?", points),
		"monthly_points": gorm.Expr("monthly_points + ?", points),
		"updated_at":     time.Now(),
	}
	if column, ok := categoryColumns[category]; ok {
		assignments[column] = gorm.Expr(column+" + ?", points)
		switch category {
		case models.PointCategoryFeedback:
			fresh.FeedbackPoints = points
		case models.PointCategoryVoting:
			fresh.VotingPoints = points
		case models.PointCategoryResearch:
			fresh.ResearchPoints = points
		case models.PointCategoryQuality:
			fresh.QualityPoints = points
		}
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&fresh).Error
}

func (s *GormStore) ReadAggregate(ctx context.Context, userID string) (*models.UserPoints, error) {
	var aggregate models.UserPoints
	if err := s.db.WithContext(ctx).First(&aggregate, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &aggregate, nil
}

func (s *GormStore) RaiseLevel(ctx context.Context, userID string, level, nextThreshold int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.UserPoints{}).
		Where("user_id = ? AND level < ?", userID, level).
		Updates(map[string]interface{}{
			"level":                level,
			"next_level_threshold": nextThreshold,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) ReadLedgerSince(ctx context.Context, userID string, since time.Time) ([]models.PointEntry, error) {
	var entries []models.PointEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func (s *GormStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	var definitions []models.Achievement
	err := s.db.WithContext(ctx).Find(&definitions).Error
	return definitions, err
}

func (s *GormStore) ReadOrCreateProgress(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error) {
	var progress models.UserAchievement
	err := s.db.WithContext(ctx).First(&progress, "user_id = ? AND achievement_id = ?", userID, achievementID).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Insert-if-absent, then re-read: safe against a concurrent creator.
	fresh := models.UserAchievement{UserID: userID, AchievementID: achievementID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(&progress, "user_id = ? AND achievement_id = ?", userID, achievementID).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *GormStore) SaveProgress(ctx context.Context, userID, achievementID string, progress int) error {
	return s.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND earned_at IS NULL", userID, achievementID).
		Update("progress", progress).Error
}

func (s *GormStore) ConditionalSetEarned(ctx context.Context, userID, achievementID string, at time.Time, progress int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND earned_at IS NULL", userID, achievementID).
		Updates(map[string]interface{}{
			"earned_at": at,
			"progress":  progress,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
