package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/repository"
)

// RelationshipService manages the like, mute and viewer memberships between
// users and submissions. Each operation is a bounded read-modify-write
// against the store; callers serialize concurrent mutations on the same
// submission.
type RelationshipService interface {
	Like(ctx context.Context, submissionID, userID uint) error
	Unlike(ctx context.Context, submissionID, userID uint) error
	Mute(ctx context.Context, submissionID, userID uint) error
	Unmute(ctx context.Context, submissionID, userID uint) error
	UnmuteAll(ctx context.Context, submissionID uint) error
	IsMutedBy(ctx context.Context, submissionID, userID uint) (bool, error)
	View(ctx context.Context, submissionID, userID uint) error
	ViewCount(ctx context.Context, submissionID uint) (int64, error)
}

type relationshipService struct {
	relationships repository.RelationshipRepository
	submissions   repository.SubmissionRepository
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewRelationshipService constructs a RelationshipService instance.
func NewRelationshipService(relationships repository.RelationshipRepository, submissions repository.SubmissionRepository, logger zerolog.Logger) RelationshipService {
	return &relationshipService{
		relationships: relationships,
		submissions:   submissions,
		logger:        logger.With().Str("component", "relationship_service").Logger(),
		tracer:        otel.Tracer("github.com/praxisdev/praxis-api/internal/service/relationship"),
	}
}

// Like adds the user to the submission's likers and mutes the submission for
// them: a liked submission needs no further nit notifications. Liking twice
// leaves exactly one membership.
func (s *relationshipService) Like(ctx context.Context, submissionID, userID uint) error {
	spanCtx, span := s.tracer.Start(ctx, "relationships.like", trace.WithAttributes(
		attribute.Int64("submission_id", int64(submissionID)),
	))
	defer span.End()

	submission, err := s.submissions.GetByID(spanCtx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.relationships.AddLike(spanCtx, submissionID, userID); err != nil {
		return err
	}
	if err := s.relationships.AddMute(spanCtx, submissionID, userID); err != nil {
		return err
	}

	submission.IsLiked = true

	return s.submissions.Save(spanCtx, &submission)
}

// Unlike removes the user's like, recomputes the is_liked cache from the
// remaining likers and unmutes the submission for them. The unmute is
// unconditional: a mute the user set by hand before liking is removed too.
// Removing a like that never existed is a silent no-op.
func (s *relationshipService) Unlike(ctx context.Context, submissionID, userID uint) error {
	spanCtx, span := s.tracer.Start(ctx, "relationships.unlike", trace.WithAttributes(
		attribute.Int64("submission_id", int64(submissionID)),
	))
	defer span.End()

	submission, err := s.submissions.GetByID(spanCtx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.relationships.RemoveLike(spanCtx, submissionID, userID); err != nil {
		return err
	}

	remaining, err := s.relationships.LikeCount(spanCtx, submissionID)
	if err != nil {
		return err
	}

	if err := s.relationships.RemoveMute(spanCtx, submissionID, userID); err != nil {
		return err
	}

	submission.IsLiked = remaining > 0

	return s.submissions.Save(spanCtx, &submission)
}

func (s *relationshipService) Mute(ctx context.Context, submissionID, userID uint) error {
	return s.relationships.AddMute(ctx, submissionID, userID)
}

func (s *relationshipService) Unmute(ctx context.Context, submissionID, userID uint) error {
	return s.relationships.RemoveMute(ctx, submissionID, userID)
}

func (s *relationshipService) UnmuteAll(ctx context.Context, submissionID uint) error {
	return s.relationships.RemoveAllMutes(ctx, submissionID)
}

func (s *relationshipService) IsMutedBy(ctx context.Context, submissionID, userID uint) (bool, error) {
	return s.relationships.HasMute(ctx, submissionID, userID)
}

// View records that the user looked at the submission. Viewing is best-effort
// telemetry: a store failure here is logged and swallowed so it never breaks
// the request that triggered it.
func (s *relationshipService) View(ctx context.Context, submissionID, userID uint) error {
	if err := s.relationships.AddViewer(ctx, submissionID, userID); err != nil {
		s.logger.Warn().Err(err).
			Uint("submission_id", submissionID).
			Uint("user_id", userID).
			Msg("failed to record submission view")
	}

	return nil
}

func (s *relationshipService) ViewCount(ctx context.Context, submissionID uint) (int64, error) {
	return s.relationships.ViewerCount(ctx, submissionID)
}
