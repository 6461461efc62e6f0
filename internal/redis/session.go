package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// Session is the principal stored against an opaque session token.
type Session struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore handles session tokens in Redis. Sessions are server-side
// so suspension and logout revoke them immediately.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Save stores a session under the given token.
func (s *SessionStore) Save(ctx context.Context, token string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+token, data, s.ttl).Err()
}

// Get retrieves a session and refreshes its sliding TTL.
// Returns nil with no error when the token is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	key := sessionPrefix + token
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	// Sliding expiry: active sessions stay alive.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &session, nil
}

// Delete removes a session token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionPrefix+token).Err()
}

// Track remembers a token as belonging to a user so RevokeUser can find it.
func (s *SessionStore) Track(ctx context.Context, userID, token string) error {
	key := "user_sessions:" + userID
	if err := s.client.SAdd(ctx, key, token).Err(); err != nil {
		return err
	}
	// Keep the tracking set from outliving its sessions forever.
	return s.client.Expire(ctx, key, s.ttl*2).Err()
}

// Untrack forgets a token for a user.
func (s *SessionStore) Untrack(ctx context.Context, userID, token string) error {
	return s.client.SRem(ctx, "user_sessions:"+userID, token).Err()
}

// RevokeUser deletes every live session belonging to a user. Used when an
// admin suspends an account.
func (s *SessionStore) RevokeUser(ctx context.Context, userID string) error {
	key := "user_sessions:" + userID
	tokens, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionPrefix+token)
	}
	pipe.Del(ctx, key)
	_, err = pipe.Exec(ctx)
	return err
}
