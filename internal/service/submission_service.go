package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/dto"
	"github.com/praxisdev/praxis-api/internal/models"
	"github.com/praxisdev/praxis-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService owns the submission lifecycle: creation with version
// numbering, superseding, deletion, and the derived lookups over a
// submission's version group.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	GetByKey(ctx context.Context, key string) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Supersede(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Delete(ctx context.Context, id uint) error
	PriorVersion(ctx context.Context, id uint) (*dto.SubmissionResponse, error)
	RelatedVersions(ctx context.Context, id uint) ([]dto.SubmissionResponse, error)
	DiscussionInvolvesUser(ctx context.Context, id uint) (bool, error)
	Comments(ctx context.Context, id uint) ([]dto.CommentResponse, error)
	RandomCompleted(ctx context.Context, problem models.Problem) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	comments    repository.CommentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
	pick        func(n int) int
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, comments repository.CommentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		comments:    comments,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/praxisdev/praxis-api/internal/service/submission"),
		now:         time.Now,
		pick:        rand.Intn,
	}
}

// Submit records a new attempt. The version is one more than the number of
// submissions already in the (user, exercise) group; the key is assigned here
// and never changes. Repeating Submit is not idempotent: each call creates a
// new, higher-versioned submission.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "submissions.submit", trace.WithAttributes(
		attribute.String("language", payload.Language),
		attribute.String("slug", payload.Slug),
	))
	defer span.End()

	group := models.Submission{UserID: payload.UserID, Language: payload.Language, Slug: payload.Slug}
	priorCount, err := s.submissions.Count(spanCtx, repository.RelatedTo(group))
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		Key:      uuid.NewString(),
		UserID:   payload.UserID,
		Language: payload.Language,
		Slug:     payload.Slug,
		Solution: datatypes.JSON(payload.Solution),
		State:    models.SubmissionStatePending,
		Version:  int(priorCount) + 1,
	}

	if err := s.submissions.Create(spanCtx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("key", submission.Key).
		Int("version", submission.Version).
		Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GetByKey(ctx context.Context, key string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	scopes := s.filterScopes(filter)

	submissions, err := s.submissions.List(ctx, scopes...)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) filterScopes(filter dto.SubmissionFilter) []repository.Scope {
	var scopes []repository.Scope

	if filter.State != nil {
		switch *filter.State {
		case "done":
			scopes = append(scopes, repository.Done)
		case "pending":
			scopes = append(scopes, repository.Pending)
		case "hibernating":
			scopes = append(scopes, repository.Hibernating)
		case "needs_input":
			scopes = append(scopes, repository.NeedsInput)
		case "aging":
			scopes = append(scopes, repository.Aging(s.now()))
		}
	}
	if filter.Language != nil {
		scopes = append(scopes, repository.ForLanguage(*filter.Language))
	}
	if filter.ExcludingUserID != nil {
		scopes = append(scopes, repository.Excluding(*filter.ExcludingUserID))
	}
	if filter.UnmutedForUserID != nil {
		scopes = append(scopes, repository.UnmutedFor(*filter.UnmutedForUserID))
	}
	if filter.NotCommentedByID != nil {
		scopes = append(scopes, repository.NotCommentedOnBy(*filter.NotCommentedByID))
	}
	if filter.NotLikedByUserID != nil {
		scopes = append(scopes, repository.NotLikedBy(*filter.NotLikedByUserID))
	}
	if filter.RecentOnly {
		scopes = append(scopes, repository.Recent(s.now()))
	}
	if filter.Order != nil && *filter.Order == "desc" {
		scopes = append(scopes, repository.Reversed)
	} else {
		scopes = append(scopes, repository.Chronological)
	}

	return scopes
}

// Supersede marks the submission as replaced by a newer version and clears
// its done timestamp. There is no state guard: superseding an already
// superseded submission writes the same values again.
func (s *submissionService) Supersede(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission.State = models.SubmissionStateSuperseded
	submission.DoneAt = nil

	if err := s.submissions.Save(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission superseded")

	return dto.NewSubmissionResponse(submission), nil
}

// Delete removes the submission and everything that belongs to it.
func (s *submissionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.submissions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("submission_id", id).Msg("submission deleted")

	return nil
}

// PriorVersion returns the previous version in the submission's group, or nil
// for the first version.
func (s *submissionService) PriorVersion(ctx context.Context, id uint) (*dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	prior, err := s.submissions.PriorVersion(ctx, submission)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, nil
	}

	response := dto.NewSubmissionResponse(*prior)
	return &response, nil
}

// RelatedVersions returns every version in the submission's group, oldest
// first, the submission itself included.
func (s *submissionService) RelatedVersions(ctx context.Context, id uint) ([]dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	related, err := s.submissions.Related(ctx, submission)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(related), nil
}

// DiscussionInvolvesUser reports whether anyone has replied since the last
// reviewer nit was logged, i.e. the live comment count exceeds nit_count.
func (s *submissionService) DiscussionInvolvesUser(ctx context.Context, id uint) (bool, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrSubmissionNotFound
		}
		return false, err
	}

	commentCount, err := s.comments.CountBySubmission(ctx, id)
	if err != nil {
		return false, err
	}

	return int64(submission.NitCount) < commentCount, nil
}

// Comments lists the submission's review comments, oldest first.
func (s *submissionService) Comments(ctx context.Context, id uint) ([]dto.CommentResponse, error) {
	if _, err := s.submissions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	comments, err := s.comments.ListBySubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(comments), nil
}

// RandomCompleted picks one done submission for the exercise uniformly at
// random, or nil when nobody has completed it. The selection happens here
// rather than in store-specific random ordering so it stays portable and
// testable.
func (s *submissionService) RandomCompleted(ctx context.Context, problem models.Problem) (*dto.SubmissionResponse, error) {
	completed, err := s.submissions.List(ctx, repository.CompletedFor(problem))
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return nil, nil
	}

	response := dto.NewSubmissionResponse(completed[s.pick(len(completed))])
	return &response, nil
}
