package services

import (
	"time"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	Level        int    `json:"level"`
	TotalPoints  int    `json:"totalPoints"`
	WeeklyPoints int    `json:"weeklyPoints"`
}

const (
	leaderboardCacheKey = "leaderboard:points"
	leaderboardTTL      = 60 * time.Second
	leaderboardSize     = 50
)

// InvalidateLeaderboardCache clears the cached board (call after awards if
// freshness matters more than the TTL).
func InvalidateLeaderboardCache() {
	database.CacheInvalidate(leaderboardCacheKey + "*")
}

// GetLeaderboard returns the top users by total points, cached in Redis.
func GetLeaderboard() ([]LeaderboardEntry, error) {
	var cached []LeaderboardEntry
	if err := database.CacheGet(leaderboardCacheKey, &cached); err == nil {
		return cached, nil
	}

	var rows []struct {
		models.UserPoints
		Username  string
		Name      string
		AvatarURL string
	}
	err := database.DB.Model(&models.UserPoints{}).
		Select("user_points.*, users.username, users.name, users.avatar_url").
		Joins("JOIN users ON users.id = user_points.user_id").
		Where("users.is_blocked = ?", false).
		Order("user_points.total_points DESC").
		Limit(leaderboardSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			UserID:       row.UserID,
			Username:     row.Username,
			Name:         row.Name,
			Avatar:       row.AvatarURL,
			Level:        row.Level,
			TotalPoints:  row.TotalPoints,
			WeeklyPoints: row.WeeklyPoints,
		})
	}

	// Best-effort cache; serving a fresh board beats failing on Redis.
	database.CacheSet(leaderboardCacheKey, entries, leaderboardTTL)

	return entries, nil
}
