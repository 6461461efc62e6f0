package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"medride/internal/domain"
)

// NotificationRepository is a PostgreSQL implementation of
// repository.NotificationRepository. The seq column is assigned by the
// database per user so polling cursors are gapless within a user.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// Create persists a notification and fills in its per-user Seq. The seq
// comes from a per-user counter row: the upsert takes a row lock, so
// concurrent inserts for the same user serialize on it and can never hand
// out the same seq twice. A MAX(seq)+1 subselect would, under READ
// COMMITTED, let two inserts read the same MAX and collide.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		WITH next AS (
			INSERT INTO notification_counters (user_id, seq) VALUES ($2, 1)
			ON CONFLICT (user_id) DO UPDATE SET seq = notification_counters.seq + 1
			RETURNING seq
		)
		INSERT INTO notifications (id, seq, user_id, type, title, body, data, created_at)
		SELECT $1, next.seq, $2, $3, $4, $5, $6, $7 FROM next
		RETURNING seq
	`

	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	return r.q.QueryRowContext(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Title,
		n.Body,
		data,
		n.CreatedAt,
	).Scan(&n.Seq)
}

// ListAfter retrieves a user's notifications with Seq greater than the
// cursor, in ascending Seq order.
func (r *NotificationRepository) ListAfter(ctx context.Context, userID string, afterSeq int64, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, seq, user_id, type, title, body, data, created_at, read_at
		FROM notifications
		WHERE user_id = $1 AND seq > $2
		ORDER BY seq ASC LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, userID, afterSeq, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var data []byte
		var readAt sql.NullTime
		if err := rows.Scan(
			&n.ID,
			&n.Seq,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Body,
			&data,
			&n.CreatedAt,
			&readAt,
		); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, err
			}
		}
		if readAt.Valid {
			n.ReadAt = readAt.Time
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead marks all of a user's notifications up to the given Seq as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, upToSeq int64) error {
	query := `
		UPDATE notifications SET read_at = NOW()
		WHERE user_id = $1 AND seq <= $2 AND read_at IS NULL
	`
	_, err := r.q.ExecContext(ctx, query, userID, upToSeq)
	return err
}
