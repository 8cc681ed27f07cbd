package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxisdev/praxis-api/internal/dto"
	"github.com/praxisdev/praxis-api/internal/models"
	"github.com/praxisdev/praxis-api/internal/service"
	"github.com/praxisdev/praxis-api/internal/utils"
)

// SubmissionHandler exposes the submission lifecycle and the social
// operations over HTTP. It holds no domain logic: every route resolves its
// submission and delegates to the services.
type SubmissionHandler struct {
	submissions   service.SubmissionService
	relationships service.RelationshipService
	logger        zerolog.Logger
}

// NewSubmissionHandler constructs a handler instance.
func NewSubmissionHandler(submissions service.SubmissionService, relationships service.RelationshipService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions:   submissions,
		relationships: relationships,
		logger:        logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register binds the submission routes.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/", h.submit)
	router.Get("/", h.list)
	// Registered before the :key routes so "random" is never read as a key.
	router.Get("/random", h.randomCompleted)
	router.Get("/:key", h.get)
	router.Get("/:key/related", h.related)
	router.Get("/:key/comments", h.comments)
	router.Get("/:key/prior", h.prior)
	router.Post("/:key/supersede", h.supersede)
	router.Delete("/:key", h.remove)
	router.Post("/:key/like", h.like)
	router.Delete("/:key/like", h.unlike)
	router.Post("/:key/mute", h.mute)
	router.Delete("/:key/mute", h.unmute)
	router.Post("/:key/view", h.view)
	router.Get("/:key/views", h.viewCount)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == 0 {
		payload.UserID = actingUserID(c)
	}

	created, err := h.submissions.Submit(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create submission")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", created)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	var filter dto.SubmissionFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	submissions, err := h.submissions.List(c.UserContext(), filter)
	if err != nil {
		if isValidationError(err) {
			return utils.SendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	// Viewing is best-effort bookkeeping; it never fails the request.
	if userID := actingUserID(c); userID != 0 {
		_ = h.relationships.View(c.UserContext(), submission.ID, userID)
	}

	return utils.SendSuccess(c, "submission", submission)
}

func (h *SubmissionHandler) related(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	versions, err := h.submissions.RelatedVersions(c.UserContext(), submission.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load related versions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load related versions")
	}

	return utils.SendSuccess(c, "related versions", versions)
}

func (h *SubmissionHandler) comments(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	comments, err := h.submissions.Comments(c.UserContext(), submission.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load comments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load comments")
	}

	return utils.SendSuccess(c, "comments", comments)
}

func (h *SubmissionHandler) randomCompleted(c *fiber.Ctx) error {
	language := queryString(c, "language")
	slug := queryString(c, "slug")
	if language == nil || slug == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "language and slug are required")
	}

	submission, err := h.submissions.RandomCompleted(c.UserContext(), models.Problem{TrackID: *language, Slug: *slug})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to pick a completed submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to pick a completed submission")
	}
	if submission == nil {
		return utils.SendError(c, fiber.StatusNotFound, "no completed submissions for this exercise")
	}

	return utils.SendSuccess(c, "random completed submission", submission)
}

func (h *SubmissionHandler) prior(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	priorVersion, err := h.submissions.PriorVersion(c.UserContext(), submission.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load prior version")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load prior version")
	}
	if priorVersion == nil {
		return utils.SendError(c, fiber.StatusNotFound, "no prior version")
	}

	return utils.SendSuccess(c, "prior version", priorVersion)
}

func (h *SubmissionHandler) supersede(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	updated, err := h.submissions.Supersede(c.UserContext(), submission.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to supersede submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to supersede submission")
	}

	return utils.SendSuccess(c, "submission superseded", updated)
}

func (h *SubmissionHandler) remove(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	if err := h.submissions.Delete(c.UserContext(), submission.ID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete submission")
	}

	return utils.SendSuccess(c, "submission deleted", nil)
}

func (h *SubmissionHandler) like(c *fiber.Ctx) error {
	return h.membership(c, h.relationships.Like, "submission liked")
}

func (h *SubmissionHandler) unlike(c *fiber.Ctx) error {
	return h.membership(c, h.relationships.Unlike, "submission unliked")
}

func (h *SubmissionHandler) mute(c *fiber.Ctx) error {
	return h.membership(c, h.relationships.Mute, "submission muted")
}

func (h *SubmissionHandler) unmute(c *fiber.Ctx) error {
	return h.membership(c, h.relationships.Unmute, "submission unmuted")
}

func (h *SubmissionHandler) view(c *fiber.Ctx) error {
	return h.membership(c, h.relationships.View, "view recorded")
}

func (h *SubmissionHandler) viewCount(c *fiber.Ctx) error {
	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	count, err := h.relationships.ViewCount(c.UserContext(), submission.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to count views")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to count views")
	}

	return utils.SendSuccess(c, "view count", fiber.Map{"count": count})
}

type membershipOp func(ctx context.Context, submissionID, userID uint) error

func (h *SubmissionHandler) membership(c *fiber.Ctx, op membershipOp, message string) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	submission, ok := h.resolve(c)
	if !ok {
		return nil
	}

	if err := op(c.UserContext(), submission.ID, userID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("membership operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "operation failed")
	}

	return utils.SendSuccess(c, message, nil)
}

// resolve loads the submission named by the :key parameter, writing the error
// response itself when the lookup fails.
func (h *SubmissionHandler) resolve(c *fiber.Ctx) (dto.SubmissionResponse, bool) {
	submission, err := h.submissions.GetByKey(c.UserContext(), c.Params("key"))
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			_ = utils.SendError(c, fiber.StatusNotFound, "submission not found")
			return dto.SubmissionResponse{}, false
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load submission")
		_ = utils.SendError(c, fiber.StatusInternalServerError, "failed to load submission")
		return dto.SubmissionResponse{}, false
	}

	return submission, true
}
