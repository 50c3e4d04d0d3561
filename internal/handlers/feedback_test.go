package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/captaindev404/prd-tools-sub000/internal/config"
	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
	"github.com/captaindev404/prd-tools-sub000/internal/services"
)

// setupTest points the global DB at a per-test in-memory SQLite database and
// rewires the gamification services onto it. Redis stays nil, so rate limits
// and caches fail open.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		&models.Questionnaire{},
		&models.Question{},
		&models.QuestionnaireResponse{},
		&models.PointEntry{},
		&models.UserPoints{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
	))

	database.DB = db
	config.AppConfig = &config.Config{EarlyUserLimit: 1000}
	services.InitGamification()
}

// testRouter injects the given user the way AuthMiddleware would.
func testRouter(userID string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
	})
	router.POST("/feedback", CreateFeedback)
	router.POST("/feedback/:id/vote", VoteFeedback)
	router.DELETE("/feedback/:id/vote", UnvoteFeedback)
	router.PATCH("/feedback/:id/status", UpdateFeedbackStatus)
	router.GET("/gamification/me", GetMyPoints)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func createUser(t *testing.T, id, username string) {
	t.Helper()
	user := models.User{ID: id, Username: username, Email: username + "@example.com"}
	require.NoError(t, database.DB.Create(&user).Error)
}

func TestCreateFeedbackAwardsPoints(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")

	recorder := doJSON(testRouter("author"), http.MethodPost, "/feedback",
		`{"title":"Dark mode","content":"Please add a dark theme.","category":"FEATURE"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var feedback models.Feedback
	require.NoError(t, database.DB.First(&feedback, "user_id = ?", "author").Error)
	assert.Equal(t, "Dark mode", feedback.Title)
	assert.Equal(t, models.CategoryFeature, feedback.Category)

	var entry models.PointEntry
	require.NoError(t, database.DB.First(&entry, "user_id = ? AND action = ?", "author", "feedback_submitted").Error)
	assert.Equal(t, 15, entry.Points)
	assert.Equal(t, feedback.ID, entry.ResourceID)

	var aggregate models.UserPoints
	require.NoError(t, database.DB.First(&aggregate, "user_id = ?", "author").Error)
	assert.Equal(t, 15, aggregate.TotalPoints)
	assert.Equal(t, 15, aggregate.FeedbackPoints)
}

func TestCreateFeedbackValidation(t *testing.T) {
	setupTest(t)

	recorder := doJSON(testRouter("author"), http.MethodPost, "/feedback", `{"content":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// A rejected submission must not touch the ledger.
	var entries int64
	database.DB.Model(&models.PointEntry{}).Count(&entries)
	assert.EqualValues(t, 0, entries)
}

func TestCreateFeedbackRequiresAuth(t *testing.T) {
	setupTest(t)

	recorder := doJSON(testRouter(""), http.MethodPost, "/feedback",
		`{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestVoteFeedbackAwardsVoterAndAuthor(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")
	createUser(t, "voter", "voter")

	feedback := models.Feedback{UserID: "author", Title: "t", Content: "c"}
	require.NoError(t, database.DB.Create(&feedback).Error)

	recorder := doJSON(testRouter("voter"), http.MethodPost, "/feedback/"+feedback.ID+"/vote", "")
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var voterPoints models.UserPoints
	require.NoError(t, database.DB.First(&voterPoints, "user_id = ?", "voter").Error)
	assert.Equal(t, 5, voterPoints.TotalPoints)
	assert.Equal(t, 5, voterPoints.VotingPoints)

	var authorPoints models.UserPoints
	require.NoError(t, database.DB.First(&authorPoints, "user_id = ?", "author").Error)
	assert.Equal(t, 2, authorPoints.TotalPoints)
	assert.Equal(t, 2, authorPoints.QualityPoints)

	require.NoError(t, database.DB.First(&feedback, "id = ?", feedback.ID).Error)
	assert.Equal(t, 1, feedback.Upvotes)

	// Double vote bounces off the unique index and awards nothing more.
	recorder = doJSON(testRouter("voter"), http.MethodPost, "/feedback/"+feedback.ID+"/vote", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	require.NoError(t, database.DB.First(&voterPoints, "user_id = ?", "voter").Error)
	assert.Equal(t, 5, voterPoints.TotalPoints)
}

func TestVoteOwnFeedbackRejected(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")

	feedback := models.Feedback{UserID: "author", Title: "t", Content: "c"}
	require.NoError(t, database.DB.Create(&feedback).Error)

	recorder := doJSON(testRouter("author"), http.MethodPost, "/feedback/"+feedback.ID+"/vote", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUnvoteKeepsEarnedPoints(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")
	createUser(t, "voter", "voter")

	feedback := models.Feedback{UserID: "author", Title: "t", Content: "c"}
	require.NoError(t, database.DB.Create(&feedback).Error)

	recorder := doJSON(testRouter("voter"), http.MethodPost, "/feedback/"+feedback.ID+"/vote", "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(testRouter("voter"), http.MethodDelete, "/feedback/"+feedback.ID+"/vote", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	// The vote row and the upvote counter roll back; the ledger does not.
	var votes int64
	database.DB.Model(&models.FeedbackVote{}).Count(&votes)
	assert.EqualValues(t, 0, votes)

	require.NoError(t, database.DB.First(&feedback, "id = ?", feedback.ID).Error)
	assert.Equal(t, 0, feedback.Upvotes)

	var voterPoints models.UserPoints
	require.NoError(t, database.DB.First(&voterPoints, "user_id = ?", "voter").Error)
	assert.Equal(t, 5, voterPoints.TotalPoints)
}

func TestShippedStatusAwardsAuthor(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")

	feedback := models.Feedback{UserID: "author", Title: "Dark mode", Content: "c"}
	require.NoError(t, database.DB.Create(&feedback).Error)

	recorder := doJSON(testRouter("admin"), http.MethodPatch, "/feedback/"+feedback.ID+"/status",
		`{"status":"SHIPPED"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var aggregate models.UserPoints
	require.NoError(t, database.DB.First(&aggregate, "user_id = ?", "author").Error)
	assert.Equal(t, 50, aggregate.TotalPoints)
	assert.Equal(t, 50, aggregate.QualityPoints)

	var notification models.Notification
	require.NoError(t, database.DB.First(&notification, "user_id = ? AND type = ?", "author", models.NotificationStatusChange).Error)
	assert.Contains(t, notification.Body, "SHIPPED")
}

func TestUpdateFeedbackStatusInvalid(t *testing.T) {
	setupTest(t)
	createUser(t, "author", "author")

	feedback := models.Feedback{UserID: "author", Title: "t", Content: "c"}
	require.NoError(t, database.DB.Create(&feedback).Error)

	recorder := doJSON(testRouter("admin"), http.MethodPatch, "/feedback/"+feedback.ID+"/status",
		`{"status":"DONE"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetMyPointsDefaultProjection(t *testing.T) {
	setupTest(t)

	recorder := doJSON(testRouter("newcomer"), http.MethodGet, "/gamification/me", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `"level":1`)
	assert.Contains(t, body, `"totalPoints":0`)
	assert.Contains(t, body, `"consecutiveDays":0`)
}
