package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RideCacheTTL   = 10 * time.Second // Ride status changes during bidding
	DriverCacheTTL = 30 * time.Second // Driver duty state changes frequently
)

// Key prefixes
const (
	rideCachePrefix   = "cache:ride:"
	driverCachePrefix = "cache:driver:"
	openRidesKey      = "open_rides"
)

// CachedRide represents a cached ride entity, complete enough to serve
// reads without touching Postgres.
type CachedRide struct {
	ID             string    `json:"id"`
	RiderID        string    `json:"rider_id"`
	PickupAddress  string    `json:"pickup_address"`
	DropoffAddress string    `json:"dropoff_address"`
	PickupLat      float64   `json:"pickup_lat"`
	PickupLng      float64   `json:"pickup_lng"`
	DropoffLat     float64   `json:"dropoff_lat"`
	DropoffLng     float64   `json:"dropoff_lng"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	MobilityNeed   string    `json:"mobility_need"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"`
	DriverID       string    `json:"driver_id,omitempty"`
	EstimatedMiles float64   `json:"estimated_miles"`
	EstimatedFare  float64   `json:"estimated_fare"`
	FinalFare      float64   `json:"final_fare,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	StartedAt      time.Time `json:"started_at,omitempty"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string    `json:"cancel_reason,omitempty"`
}

// CachedDriver represents a cached driver profile.
type CachedDriver struct {
	UserID      string `json:"user_id"`
	VehicleType string `json:"vehicle_type"`
	Status      string `json:"status"`
	OnDuty      bool   `json:"on_duty"`
}

// GetRide retrieves a ride from cache.
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*CachedRide, error) {
	data, err := s.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var ride CachedRide
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *CachedRide) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideCachePrefix+ride.ID, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideCachePrefix+rideID).Err()
}

// GetDriver retrieves a driver profile from cache.
func (s *CacheStore) GetDriver(ctx context.Context, userID string) (*CachedDriver, error) {
	data, err := s.client.Get(ctx, driverCachePrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver profile in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, driverCachePrefix+driver.UserID, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver profile from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, userID string) error {
	return s.client.Del(ctx, driverCachePrefix+userID).Err()
}

// AddOpenRide adds a ride to the open-ride set drivers browse.
func (s *CacheStore) AddOpenRide(ctx context.Context, rideID string) error {
	return s.client.SAdd(ctx, openRidesKey, rideID).Err()
}

// RemoveOpenRide removes a ride from the open-ride set.
func (s *CacheStore) RemoveOpenRide(ctx context.Context, rideID string) error {
	return s.client.SRem(ctx, openRidesKey, rideID).Err()
}

// GetOpenRides returns all open ride IDs.
func (s *CacheStore) GetOpenRides(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, openRidesKey).Result()
}
