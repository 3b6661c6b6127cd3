package notification

import (
	"context"
)

// Emitter is the side channel workflows publish to after a commit.
// Delivery is best effort.
type Emitter interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	// QueueBulkNotification queues every request and reports the ones that
	// could not be queued.
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error
}

// Service defines the notification service interface
type Service interface {
	Emitter

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// SSE subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
