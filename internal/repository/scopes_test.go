package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/praxisdev/praxis-api/internal/models"
)

func TestStateScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Now().UTC()

	pending := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", State: models.SubmissionStatePending, CreatedAt: now})
	needsInput := seedSubmission(t, db, models.Submission{UserID: 2, Language: "go", Slug: "bob", State: models.SubmissionStateNeedsInput, CreatedAt: now})
	seedSubmission(t, db, models.Submission{UserID: 3, Language: "go", Slug: "bob", State: models.SubmissionStateHibernating, CreatedAt: now})
	done := seedSubmission(t, db, models.Submission{UserID: 4, Language: "go", Slug: "bob", State: models.SubmissionStateDone, CreatedAt: now})
	seedSubmission(t, db, models.Submission{UserID: 5, Language: "go", Slug: "bob", State: models.SubmissionStateSuperseded, CreatedAt: now})

	got, err := repo.List(context.Background(), Pending)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{pending.ID, needsInput.ID}, submissionIDs(got), "query-level pending includes needs_input")

	got, err = repo.List(context.Background(), Done)
	require.NoError(t, err)
	require.Equal(t, []uint{done.ID}, submissionIDs(got))

	count, err := repo.Count(context.Background(), Hibernating)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	got, err = repo.List(context.Background(), NeedsInput)
	require.NoError(t, err)
	require.Equal(t, []uint{needsInput.ID}, submissionIDs(got))
}

func TestAgingScope(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fourWeeksAgo := now.Add(-4 * 7 * 24 * time.Hour)

	old := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", State: models.SubmissionStatePending, NitCount: 2, CreatedAt: fourWeeksAgo})
	oldNeedsInput := seedSubmission(t, db, models.Submission{UserID: 2, Language: "go", Slug: "bob", State: models.SubmissionStateNeedsInput, NitCount: 1, CreatedAt: fourWeeksAgo})
	// No nits yet, so not aging.
	seedSubmission(t, db, models.Submission{UserID: 3, Language: "go", Slug: "bob", State: models.SubmissionStatePending, NitCount: 0, CreatedAt: fourWeeksAgo})
	// Too fresh.
	seedSubmission(t, db, models.Submission{UserID: 4, Language: "go", Slug: "bob", State: models.SubmissionStatePending, NitCount: 2, CreatedAt: now.Add(-24 * time.Hour)})
	// Done submissions never age.
	seedSubmission(t, db, models.Submission{UserID: 5, Language: "go", Slug: "bob", State: models.SubmissionStateDone, NitCount: 2, CreatedAt: fourWeeksAgo})

	got, err := repo.List(context.Background(), Aging(now))
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{old.ID, oldNeedsInput.ID}, submissionIDs(got))
}

func TestTimeScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dayOld := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", CreatedAt: now.Add(-24 * time.Hour)})
	tenDaysOld := seedSubmission(t, db, models.Submission{UserID: 2, Language: "go", Slug: "bob", CreatedAt: now.Add(-10 * 24 * time.Hour)})
	monthOld := seedSubmission(t, db, models.Submission{UserID: 3, Language: "go", Slug: "bob", CreatedAt: now.Add(-30 * 24 * time.Hour)})

	got, err := repo.List(context.Background(), Recent(now))
	require.NoError(t, err)
	require.Equal(t, []uint{dayOld.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), OlderThan(now.Add(-5*24*time.Hour)))
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{tenDaysOld.ID, monthOld.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), Since(now.Add(-15*24*time.Hour)), Chronological)
	require.NoError(t, err)
	require.Equal(t, []uint{tenDaysOld.ID, dayOld.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), Between(now.Add(-5*24*time.Hour), now.Add(-15*24*time.Hour)))
	require.NoError(t, err)
	require.Equal(t, []uint{tenDaysOld.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), Reversed)
	require.NoError(t, err)
	require.Equal(t, []uint{dayOld.ID, tenDaysOld.ID, monthOld.ID}, submissionIDs(got))
}

func TestMembershipScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Now().UTC()

	first := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", CreatedAt: now})
	second := seedSubmission(t, db, models.Submission{UserID: 2, Language: "go", Slug: "leap", CreatedAt: now})

	const reviewer = uint(9)
	require.NoError(t, db.Create(&models.Comment{SubmissionID: first.ID, UserID: reviewer, Body: "nice"}).Error)
	require.NoError(t, db.Create(&models.Like{SubmissionID: first.ID, UserID: reviewer}).Error)
	require.NoError(t, db.Create(&models.Mute{SubmissionID: second.ID, UserID: reviewer}).Error)

	got, err := repo.List(context.Background(), NotCommentedOnBy(reviewer))
	require.NoError(t, err)
	require.Equal(t, []uint{second.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), NotLikedBy(reviewer))
	require.NoError(t, err)
	require.Equal(t, []uint{second.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), UnmutedFor(reviewer))
	require.NoError(t, err)
	require.Equal(t, []uint{first.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), NotSubmittedBy(1))
	require.NoError(t, err)
	require.Equal(t, []uint{second.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), Excluding(2))
	require.NoError(t, err)
	require.Equal(t, []uint{first.ID}, submissionIDs(got))
}

func TestExerciseScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Now().UTC()

	goBob := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", State: models.SubmissionStateDone, CreatedAt: now})
	seedSubmission(t, db, models.Submission{UserID: 2, Language: "go", Slug: "bob", State: models.SubmissionStatePending, CreatedAt: now})
	rubyBob := seedSubmission(t, db, models.Submission{UserID: 3, Language: "ruby", Slug: "bob", State: models.SubmissionStateDone, CreatedAt: now})

	got, err := repo.List(context.Background(), ForLanguage("ruby"))
	require.NoError(t, err)
	require.Equal(t, []uint{rubyBob.ID}, submissionIDs(got))

	got, err = repo.List(context.Background(), CompletedFor(models.Problem{TrackID: "go", Slug: "bob"}))
	require.NoError(t, err)
	require.Equal(t, []uint{goBob.ID}, submissionIDs(got))
}

func TestScopesCompose(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	now := time.Now().UTC()

	match := seedSubmission(t, db, models.Submission{UserID: 1, Language: "go", Slug: "bob", State: models.SubmissionStatePending, CreatedAt: now.Add(-time.Hour)})
	seedSubmission(t, db, models.Submission{UserID: 2, Language: "ruby", Slug: "bob", State: models.SubmissionStatePending, CreatedAt: now.Add(-time.Hour)})
	seedSubmission(t, db, models.Submission{UserID: 3, Language: "go", Slug: "bob", State: models.SubmissionStateDone, CreatedAt: now.Add(-time.Hour)})
	seedSubmission(t, db, models.Submission{UserID: 4, Language: "go", Slug: "bob", State: models.SubmissionStatePending, CreatedAt: now.Add(-30 * 24 * time.Hour)})

	got, err := repo.List(context.Background(), Pending, ForLanguage("go"), Recent(now), Excluding(4))
	require.NoError(t, err)
	require.Equal(t, []uint{match.ID}, submissionIDs(got))
}

func submissionIDs(submissions []models.Submission) []uint {
	ids := make([]uint, 0, len(submissions))
	for _, s := range submissions {
		ids = append(ids, s.ID)
	}
	return ids
}
