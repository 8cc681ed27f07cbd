package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

// Scope is a composable submission filter. Scopes conjoin inside the query
// builder, so stacking them never re-scans an intermediate result set.
type Scope = func(*gorm.DB) *gorm.DB

const (
	agingCutoff  = 3 * 7 * 24 * time.Hour
	recentWindow = 7 * 24 * time.Hour
)

// Done selects submissions the author marked complete.
func Done(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", models.SubmissionStateDone)
}

// Pending selects submissions still in review. Note the wider membership:
// needs_input counts as pending here even though the instance-level predicate
// does not include it.
func Pending(db *gorm.DB) *gorm.DB {
	return db.Where("state IN ?", []string{models.SubmissionStateNeedsInput, models.SubmissionStatePending})
}

// Hibernating selects stalled submissions.
func Hibernating(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", models.SubmissionStateHibernating)
}

// NeedsInput selects submissions waiting on their author.
func NeedsInput(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", models.SubmissionStateNeedsInput)
}

// Aging selects pending submissions with outstanding nits older than three
// weeks relative to the supplied clock.
func Aging(now time.Time) Scope {
	cutoff := now.Add(-agingCutoff)
	return func(db *gorm.DB) *gorm.DB {
		return Pending(db).Where("nit_count > 0").Where("submissions.created_at < ?", cutoff)
	}
}

// Chronological orders by creation time, oldest first.
func Chronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// Reversed orders by creation time, newest first.
func Reversed(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// NotCommentedOnBy excludes submissions the user has already commented on.
func NotCommentedOnBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("NOT EXISTS (SELECT 1 FROM comments WHERE comments.submission_id = submissions.id AND comments.user_id = ?)", userID)
	}
}

// NotLikedBy excludes submissions the user has already liked.
func NotLikedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("NOT EXISTS (SELECT 1 FROM likes WHERE likes.submission_id = submissions.id AND likes.user_id = ?)", userID)
	}
}

// NotSubmittedBy excludes the user's own submissions.
func NotSubmittedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("submissions.user_id <> ?", userID)
	}
}

// Excluding is an alias for NotSubmittedBy kept for call sites that read
// better with it.
func Excluding(userID uint) Scope {
	return NotSubmittedBy(userID)
}

// Between selects submissions created strictly inside (lower, upper).
func Between(upper, lower time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("submissions.created_at < ? AND submissions.created_at > ?", upper, lower)
	}
}

// OlderThan selects submissions created before the timestamp.
func OlderThan(ts time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("submissions.created_at < ?", ts)
	}
}

// Since selects submissions created after the timestamp.
func Since(ts time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("submissions.created_at > ?", ts)
	}
}

// ForLanguage selects submissions on the given track.
func ForLanguage(language string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("submissions.language = ?", language)
	}
}

// Recent selects submissions created within the last seven days relative to
// the supplied clock.
func Recent(now time.Time) Scope {
	return Since(now.Add(-recentWindow))
}

// UnmutedFor excludes submissions the user has muted.
func UnmutedFor(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("NOT EXISTS (SELECT 1 FROM mutes WHERE mutes.submission_id = submissions.id AND mutes.user_id = ?)", userID)
	}
}

// CompletedFor selects done submissions for the exercise.
func CompletedFor(problem models.Problem) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return Done(db).Where("submissions.language = ? AND submissions.slug = ?", problem.TrackID, problem.Slug)
	}
}

// RelatedTo selects every version in the submission's (user, exercise) group,
// the submission itself included, oldest first.
func RelatedTo(submission models.Submission) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("submissions.user_id = ? AND submissions.language = ? AND submissions.slug = ?",
				submission.UserID, submission.Language, submission.Slug).
			Order("created_at ASC")
	}
}
