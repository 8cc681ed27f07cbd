package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/dto"
	"github.com/praxisdev/praxis-api/internal/repository"
)

const inboxNotificationWindow = 7 * 24 * time.Hour

// ErrNotificationNotFound indicates a notification could not be found for
// the acting user.
var ErrNotificationNotFound = errors.New("notification not found")

// InboxService derives the unread counts shown next to a user's inbox and
// serves the collections behind them. Alerts and notifications are created
// elsewhere; marking a notification read is the only mutation here.
type InboxService interface {
	Count(ctx context.Context, userID uint) (int64, error)
	HasStuff(ctx context.Context, userID uint) (bool, error)
	HasNotifications(ctx context.Context, userID uint) (bool, error)
	HasAlerts(ctx context.Context, userID uint) (bool, error)
	Summary(ctx context.Context, userID uint) (dto.InboxResponse, error)
	Notifications(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	Alerts(ctx context.Context, userID uint) ([]dto.AlertResponse, error)
	MarkNotificationRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
}

type inboxService struct {
	notifications repository.NotificationRepository
	alerts        repository.AlertRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewInboxService builds the inbox aggregator. The cache client may be nil,
// in which case every call hits the store.
func NewInboxService(notifications repository.NotificationRepository, alerts repository.AlertRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) InboxService {
	return &inboxService{
		notifications: notifications,
		alerts:        alerts,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "inbox_service").Logger(),
		now:           time.Now,
	}
}

// Count returns the user's alert count plus their unread, recent,
// submission-kind notification count. The result is cached briefly; cache
// failures are logged and ignored.
func (s *inboxService) Count(ctx context.Context, userID uint) (int64, error) {
	cacheKey := fmt.Sprintf("inbox:count:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read inbox count cache")
		}
	}

	alertCount, err := s.alerts.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	notificationCount, err := s.countNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := alertCount + notificationCount

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, strconv.FormatInt(count, 10), s.cacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store inbox count cache")
		}
	}

	return count, nil
}

// HasStuff reports whether anything at all is waiting for the user.
func (s *inboxService) HasStuff(ctx context.Context, userID uint) (bool, error) {
	notificationCount, err := s.countNotifications(ctx, userID)
	if err != nil {
		return false, err
	}
	if notificationCount > 0 {
		return true, nil
	}

	alertCount, err := s.alerts.CountByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return alertCount > 0, nil
}

// Summary bundles the count and the presence flags into one response.
func (s *inboxService) Summary(ctx context.Context, userID uint) (dto.InboxResponse, error) {
	alertCount, err := s.alerts.CountByUser(ctx, userID)
	if err != nil {
		return dto.InboxResponse{}, err
	}

	notificationCount, err := s.countNotifications(ctx, userID)
	if err != nil {
		return dto.InboxResponse{}, err
	}

	return dto.InboxResponse{
		Count:            alertCount + notificationCount,
		HasStuff:         alertCount > 0 || notificationCount > 0,
		HasNotifications: notificationCount > 0,
		HasAlerts:        alertCount > 0,
	}, nil
}

// HasNotifications reports whether any unread, recent submission
// notifications are waiting for the user.
func (s *inboxService) HasNotifications(ctx context.Context, userID uint) (bool, error) {
	count, err := s.countNotifications(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAlerts reports whether the user has any alerts.
func (s *inboxService) HasAlerts(ctx context.Context, userID uint) (bool, error) {
	count, err := s.alerts.CountByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Notifications lists the user's notifications, newest first.
func (s *inboxService) Notifications(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

// Alerts lists the user's alerts, newest first.
func (s *inboxService) Alerts(ctx context.Context, userID uint) ([]dto.AlertResponse, error) {
	alerts, err := s.alerts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewAlertResponseSlice(alerts), nil
}

// MarkNotificationRead marks one of the user's notifications as read and
// drops the cached inbox count so the next Count reflects it.
func (s *inboxService) MarkNotificationRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	notification, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, fmt.Sprintf("inbox:count:%d", userID)).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop inbox count cache")
		}
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *inboxService) countNotifications(ctx context.Context, userID uint) (int64, error) {
	since := s.now().Add(-inboxNotificationWindow)
	return s.notifications.CountUnreadSubmissionsSince(ctx, userID, since)
}
