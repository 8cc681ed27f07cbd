package repository

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

var seedKeySeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, submission models.Submission) models.Submission {
	t.Helper()

	if submission.Key == "" {
		submission.Key = fmt.Sprintf("key-%d", seedKeySeq.Add(1))
	}
	if submission.State == "" {
		submission.State = models.SubmissionStatePending
	}
	if submission.Version == 0 {
		submission.Version = 1
	}
	require.NoError(t, db.Create(&submission).Error)

	return submission
}
