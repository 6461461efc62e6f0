package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRideLock attempts to acquire a lock for the given ride. It guards
// bid acceptance so two concurrent accepts cannot both win.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:ride:%s", rideID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRideLock releases the lock for the given ride.
func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	key := fmt.Sprintf("lock:ride:%s", rideID)

	return s.client.Del(ctx, key).Err()
}

// AcquireReviewLock attempts to acquire a lock for a document review, so two
// admins working the queue don't review the same submission concurrently.
func (s *LockStore) AcquireReviewLock(ctx context.Context, documentID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:docreview:%s", documentID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseReviewLock releases the lock for a document review.
func (s *LockStore) ReleaseReviewLock(ctx context.Context, documentID string) error {
	key := fmt.Sprintf("lock:docreview:%s", documentID)

	return s.client.Del(ctx, key).Err()
}
