package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxisdev/praxis-api/internal/service"
	"github.com/praxisdev/praxis-api/internal/utils"
)

// InboxHandler serves the derived inbox counts for the acting user.
type InboxHandler struct {
	inbox  service.InboxService
	logger zerolog.Logger
}

// NewInboxHandler constructs a handler instance.
func NewInboxHandler(inbox service.InboxService, logger zerolog.Logger) *InboxHandler {
	return &InboxHandler{
		inbox:  inbox,
		logger: logger.With().Str("component", "inbox_handler").Logger(),
	}
}

// Register binds the inbox routes.
func (h *InboxHandler) Register(router fiber.Router) {
	router.Get("/", h.summary)
	router.Get("/count", h.count)
	router.Get("/notifications", h.notifications)
	router.Post("/notifications/:id/read", h.markNotificationRead)
	router.Get("/alerts", h.alerts)
}

func (h *InboxHandler) summary(c *fiber.Ctx) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	summary, err := h.inbox.Summary(c.UserContext(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build inbox summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build inbox summary")
	}

	return utils.SendSuccess(c, "inbox", summary)
}

func (h *InboxHandler) count(c *fiber.Ctx) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	count, err := h.inbox.Count(c.UserContext(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to count inbox")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to count inbox")
	}

	return utils.SendSuccess(c, "inbox count", fiber.Map{"count": count})
}

func (h *InboxHandler) notifications(c *fiber.Ctx) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	limit, err := parseQueryUint(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be a positive integer")
	}
	offset, err := parseQueryUint(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "offset must be a positive integer")
	}

	var limitValue, offsetValue int
	if limit != nil {
		limitValue = int(*limit)
	}
	if offset != nil {
		offsetValue = int(*offset)
	}

	notifications, err := h.inbox.Notifications(c.UserContext(), userID, limitValue, offsetValue)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list notifications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", notifications)
}

func (h *InboxHandler) markNotificationRead(c *fiber.Ctx) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.inbox.MarkNotificationRead(c.UserContext(), uint(id), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "notification not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to mark notification read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark notification read")
	}

	return utils.SendSuccess(c, "notification read", notification)
}

func (h *InboxHandler) alerts(c *fiber.Ctx) error {
	userID := actingUserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "acting user is required")
	}

	alerts, err := h.inbox.Alerts(c.UserContext(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list alerts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list alerts")
	}

	return utils.SendSuccess(c, "alerts", alerts)
}
