package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	notifyPrefix    = "notify:"
	notifyKeepCount = 100
	notifyTTL       = 24 * time.Hour
)

// StreamEntry is one notification frame kept in the hot per-user list.
type StreamEntry struct {
	Seq       int64          `json:"seq"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotificationStream keeps a capped per-user list of recent notifications in
// Redis. Postgres is the durable store; this list serves cheap short-window
// polls without hitting the database.
type NotificationStream struct {
	client *redis.Client
}

// NewNotificationStream creates a new NotificationStream.
func NewNotificationStream(client *redis.Client) *NotificationStream {
	return &NotificationStream{client: client}
}

// Append pushes an entry onto a user's stream and trims it to the cap.
func (s *NotificationStream) Append(ctx context.Context, userID string, entry *StreamEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := notifyPrefix + userID
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, notifyKeepCount-1)
	pipe.Expire(ctx, key, notifyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns a user's recent entries with Seq greater than the cursor,
// oldest first. Returns ok=false when the window doesn't reach back far
// enough and the caller must fall through to the database.
func (s *NotificationStream) Recent(ctx context.Context, userID string, afterSeq int64) ([]*StreamEntry, bool, error) {
	key := notifyPrefix + userID
	raw, err := s.client.LRange(ctx, key, 0, notifyKeepCount-1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	return entriesAfter(raw, afterSeq)
}

// entriesAfter decodes a newest-first window and returns the entries past
// the cursor, oldest first. ok=false means the window does not reach back
// to the cursor: either trimming dropped entries the caller still needs,
// or the key expired and a later Append recreated it with a gap after the
// cursor. Serving such a window would silently skip entries the durable
// store still holds, so the caller must fall through to the database.
func entriesAfter(raw []string, afterSeq int64) ([]*StreamEntry, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}

	var entries []*StreamEntry
	coversCursor := false
	for _, item := range raw {
		var entry StreamEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, false, err
		}
		if entry.Seq <= afterSeq {
			coversCursor = true
			break
		}
		entries = append(entries, &entry)
	}

	// Without an entry at or before the cursor, coverage holds only when
	// the oldest retained entry is contiguous with it.
	if !coversCursor && entries[len(entries)-1].Seq > afterSeq+1 {
		return nil, false, nil
	}

	// Reverse to oldest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, true, nil
}
