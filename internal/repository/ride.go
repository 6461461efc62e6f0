package repository

import (
	"context"

	"medride/internal/domain"
)

// RideFilter narrows ride list queries. Zero values mean "no filter".
type RideFilter struct {
	RiderID  string
	DriverID string
	Status   domain.RideStatus
	Limit    int
}

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// List retrieves rides matching the filter, newest first.
	List(ctx context.Context, filter RideFilter) ([]*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error
}

// OverrideRepository defines the persistence operations for fare overrides.
type OverrideRepository interface {
	// Create persists a new fare override.
	Create(ctx context.Context, override *domain.FareOverride) error

	// GetByRideID retrieves overrides for a ride, newest first.
	GetByRideID(ctx context.Context, rideID string) ([]*domain.FareOverride, error)
}
