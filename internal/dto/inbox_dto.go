package dto

import (
	"time"

	"github.com/praxisdev/praxis-api/internal/models"
)

// InboxResponse summarizes what a user has waiting for them: their alerts
// plus their unread, recent submission notifications.
type InboxResponse struct {
	Count            int64 `json:"count"`
	HasStuff         bool  `json:"has_stuff"`
	HasNotifications bool  `json:"has_notifications"`
	HasAlerts        bool  `json:"has_alerts"`
}

// NotificationResponse is the client-facing shape of a notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	ItemKind  string    `json:"item_kind"`
	ItemID    uint      `json:"item_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse maps a notification model into its response shape.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		ItemKind:  notification.ItemKind,
		ItemID:    notification.ItemID,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}

// NewNotificationResponseSlice maps a slice of notifications, preserving order.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}
	return responses
}

// AlertResponse is the client-facing shape of an alert.
type AlertResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlertResponseSlice maps a slice of alerts, preserving order.
func NewAlertResponseSlice(alerts []models.Alert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		responses = append(responses, AlertResponse{
			ID:        alert.ID,
			Text:      alert.Text,
			Link:      alert.Link,
			CreatedAt: alert.CreatedAt,
		})
	}
	return responses
}
