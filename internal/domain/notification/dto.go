package notification

import (
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

// ============= Request DTOs =============

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
}

func (r *CreateNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecipientID) {
		errs.Add("recipient_id", "recipient_id is required")
	}
	if !r.Type.IsValid() {
		errs.Add("type", ErrInvalidNotificationType.Error())
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	}

	return errs.Err()
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "notification_ids must not be empty")
	}
	if len(r.NotificationIDs) > 100 {
		errs.Add("notification_ids", "at most 100 notifications can be marked at once")
	}

	return errs.Err()
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ============= SSE Event =============

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}
