package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for on-duty driver locations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]DriverLocation, error)
	RemoveLocation(ctx context.Context, driverID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
	AcquireReviewLock(ctx context.Context, documentID string, ttl time.Duration) (bool, error)
	ReleaseReviewLock(ctx context.Context, documentID string) error
}

// SessionStoreInterface defines the interface for session storage.
type SessionStoreInterface interface {
	Save(ctx context.Context, token string, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Track(ctx context.Context, userID, token string) error
	Untrack(ctx context.Context, userID, token string) error
	RevokeUser(ctx context.Context, userID string) error
}

// NotificationStreamInterface defines the interface for the hot
// notification window.
type NotificationStreamInterface interface {
	Append(ctx context.Context, userID string, entry *StreamEntry) error
	Recent(ctx context.Context, userID string, afterSeq int64) ([]*StreamEntry, bool, error)
}

// CacheStoreInterface defines the interface for entity caching.
type CacheStoreInterface interface {
	GetRide(ctx context.Context, rideID string) (*CachedRide, error)
	SetRide(ctx context.Context, ride *CachedRide) error
	InvalidateRide(ctx context.Context, rideID string) error
	GetDriver(ctx context.Context, userID string) (*CachedDriver, error)
	SetDriver(ctx context.Context, driver *CachedDriver) error
	InvalidateDriver(ctx context.Context, userID string) error
	AddOpenRide(ctx context.Context, rideID string) error
	RemoveOpenRide(ctx context.Context, rideID string) error
	GetOpenRides(ctx context.Context) ([]string, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface      = (*LocationStore)(nil)
	_ LockStoreInterface          = (*LockStore)(nil)
	_ SessionStoreInterface       = (*SessionStore)(nil)
	_ NotificationStreamInterface = (*NotificationStream)(nil)
	_ CacheStoreInterface         = (*CacheStore)(nil)
)
