package repository

import (
	"context"

	"medride/internal/domain"
)

// BidRepository defines the persistence operations for bids.
type BidRepository interface {
	// Create persists a new bid.
	Create(ctx context.Context, bid *domain.Bid) error

	// GetByID retrieves a bid by ID.
	GetByID(ctx context.Context, id string) (*domain.Bid, error)

	// GetByRideID retrieves all bids on a ride, newest first.
	GetByRideID(ctx context.Context, rideID string) ([]*domain.Bid, error)

	// GetPendingByRideAndDriver retrieves a driver's live bid on a ride, if any.
	GetPendingByRideAndDriver(ctx context.Context, rideID, driverID string) (*domain.Bid, error)

	// UpdateStatus updates the status of a bid.
	UpdateStatus(ctx context.Context, id string, status domain.BidStatus) error

	// DeclineSiblings moves all PENDING bids on a ride except the given one
	// to DECLINED, returning the IDs of the declined bids.
	DeclineSiblings(ctx context.Context, rideID, acceptedBidID string) ([]string, error)
}
