package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/config"
	"github.com/praxisdev/praxis-api/internal/dto"
	"github.com/praxisdev/praxis-api/internal/handler"
	"github.com/praxisdev/praxis-api/internal/models"
	"github.com/praxisdev/praxis-api/internal/repository"
	"github.com/praxisdev/praxis-api/internal/router"
	"github.com/praxisdev/praxis-api/internal/service"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.Comment{},
		&models.Like{},
		&models.Mute{},
		&models.Viewer{},
		&models.Notification{},
		&models.Alert{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	submissionRepo := repository.NewSubmissionRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	submissionService := service.NewSubmissionService(submissionRepo, commentRepo, validate, logger)
	relationshipService := service.NewRelationshipService(relationshipRepo, submissionRepo, logger)
	inboxService := service.NewInboxService(notificationRepo, alertRepo, nil, time.Minute, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Praxis Test", SubmitRateMax: 1000, SubmitRateWin: time.Minute}, router.Dependencies{
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, relationshipService, logger),
		InboxHandler:      handler.NewInboxHandler(inboxService, logger),
	})

	return app, db
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, userID uint) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()

	return resp, result
}

func submitOnce(t *testing.T, app *fiber.App, userID uint, language, slug string) dto.SubmissionResponse {
	t.Helper()

	body := map[string]interface{}{
		"user_id":  userID,
		"language": language,
		"slug":     slug,
		"solution": map[string]string{"code": "package main"},
	}
	resp, result := doRequest(t, app, http.MethodPost, "/api/v1/submissions", body, userID)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submission dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &submission))

	return submission
}

func TestSubmissionLifecycleOverHTTP(t *testing.T) {
	app, db := setupApp(t)

	v1 := submitOnce(t, app, 1, "go", "word-count")
	v2 := submitOnce(t, app, 1, "go", "word-count")

	require.Equal(t, 1, v1.Version)
	require.Equal(t, 2, v2.Version)
	require.NotEqual(t, v1.Key, v2.Key)
	require.Equal(t, "Word Count", v1.Name)
	require.Equal(t, models.SubmissionStatePending, v1.State)

	// Missing user is rejected.
	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/submissions", map[string]interface{}{"language": "go", "slug": "bob"}, 0)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Related versions, oldest first.
	resp, result := doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+v2.Key+"/related", nil, 0)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var related []dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &related))
	require.Len(t, related, 2)
	require.Equal(t, v1.ID, related[0].ID)

	// Prior of v2 is v1; v1 has none.
	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+v2.Key+"/prior", nil, 0)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var prior dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &prior))
	require.Equal(t, v1.ID, prior.ID)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+v1.Key+"/prior", nil, 0)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Superseding v1 leaves v2 alone.
	resp, result = doRequest(t, app, http.MethodPost, "/api/v1/submissions/"+v1.Key+"/supersede", nil, 1)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var superseded dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &superseded))
	require.Equal(t, models.SubmissionStateSuperseded, superseded.State)
	require.Nil(t, superseded.DoneAt)

	// Review comments on v1.
	require.NoError(t, db.Create(&models.Comment{SubmissionID: v1.ID, UserID: 9, Body: "looks good"}).Error)
	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+v1.Key+"/comments", nil, 0)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var comments []dto.CommentResponse
	require.NoError(t, json.Unmarshal(result.Data, &comments))
	require.Len(t, comments, 1)
	require.Equal(t, "looks good", comments[0].Body)

	// Random completed pick requires a done submission for the exercise.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/submissions/random?language=go&slug=word-count", nil, 0)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, db.Model(&models.Submission{}).Where("id = ?", v2.ID).
		Update("state", models.SubmissionStateDone).Error)

	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/submissions/random?language=go&slug=word-count", nil, 0)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var picked dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &picked))
	require.Equal(t, v2.ID, picked.ID)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/submissions/random", nil, 0)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/submissions/unknown-key", nil, 0)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSocialFlowOverHTTP(t *testing.T) {
	app, db := setupApp(t)

	submission := submitOnce(t, app, 1, "go", "bob")
	const fan = uint(7)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/submissions/"+submission.Key+"/like", nil, fan)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result := doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+submission.Key, nil, fan)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var liked dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(result.Data, &liked))
	require.True(t, liked.IsLiked)

	var muteCount int64
	require.NoError(t, db.Model(&models.Mute{}).Where("submission_id = ? AND user_id = ?", submission.ID, fan).Count(&muteCount).Error)
	require.Equal(t, int64(1), muteCount, "liking mutes the submission for the liker")

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/submissions/"+submission.Key+"/like", nil, fan)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Submission
	require.NoError(t, db.First(&reloaded, submission.ID).Error)
	require.False(t, reloaded.IsLiked)

	require.NoError(t, db.Model(&models.Mute{}).Where("submission_id = ? AND user_id = ?", submission.ID, fan).Count(&muteCount).Error)
	require.Zero(t, muteCount)

	// Reading the submission recorded views for the fan; repeat views add nothing.
	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/submissions/"+submission.Key+"/views", nil, 0)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var views struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(result.Data, &views))
	require.Equal(t, int64(1), views.Count)

	// Anonymous membership operations are rejected.
	resp, _ = doRequest(t, app, http.MethodPost, "/api/v1/submissions/"+submission.Key+"/mute", nil, 0)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInboxOverHTTP(t *testing.T) {
	app, db := setupApp(t)

	const userID = uint(3)
	require.NoError(t, db.Create(&models.Alert{UserID: userID, Text: "welcome"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: userID, ItemKind: models.ItemKindSubmission, ItemID: 1}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: userID, ItemKind: models.ItemKindSubmission, ItemID: 2, Read: true}).Error)

	resp, result := doRequest(t, app, http.MethodGet, "/api/v1/inbox", nil, userID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var inbox dto.InboxResponse
	require.NoError(t, json.Unmarshal(result.Data, &inbox))
	require.Equal(t, int64(2), inbox.Count)
	require.True(t, inbox.HasStuff)
	require.True(t, inbox.HasAlerts)
	require.True(t, inbox.HasNotifications)

	// Listing shows every notification for the user, and alerts separately.
	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/inbox/notifications", nil, userID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var notifications []dto.NotificationResponse
	require.NoError(t, json.Unmarshal(result.Data, &notifications))
	require.Len(t, notifications, 2)

	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/inbox/alerts", nil, userID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var alerts []dto.AlertResponse
	require.NoError(t, json.Unmarshal(result.Data, &alerts))
	require.Len(t, alerts, 1)
	require.Equal(t, "welcome", alerts[0].Text)

	// Marking the unread notification read drops the count to the alert alone.
	var unread models.Notification
	require.NoError(t, db.Where("user_id = ? AND read = ?", userID, false).First(&unread).Error)

	resp, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/v1/inbox/notifications/%d/read", unread.ID), nil, userID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result = doRequest(t, app, http.MethodGet, "/api/v1/inbox", nil, userID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(result.Data, &inbox))
	require.Equal(t, int64(1), inbox.Count)
	require.False(t, inbox.HasNotifications)
	require.True(t, inbox.HasAlerts)

	// Another user's id on the same route is rejected.
	resp, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/v1/inbox/notifications/%d/read", unread.ID), nil, 99)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/inbox", nil, 0)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
