package repository

import (
	"context"

	"medride/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
// Postgres is the durable source of truth for the polling fallback.
type NotificationRepository interface {
	// Create persists a notification and fills in its per-user Seq.
	Create(ctx context.Context, n *domain.Notification) error

	// ListAfter retrieves a user's notifications with Seq greater than
	// the cursor, in ascending Seq order.
	ListAfter(ctx context.Context, userID string, afterSeq int64, limit int) ([]*domain.Notification, error)

	// MarkRead marks all of a user's notifications up to the given Seq as read.
	MarkRead(ctx context.Context, userID string, upToSeq int64) error
}
