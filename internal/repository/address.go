package repository

import (
	"context"

	"medride/internal/domain"
)

// AddressRepository defines the persistence operations for saved addresses.
type AddressRepository interface {
	// Create persists a new saved address.
	Create(ctx context.Context, addr *domain.SavedAddress) error

	// GetByID retrieves a saved address by ID.
	GetByID(ctx context.Context, id string) (*domain.SavedAddress, error)

	// GetByUserID retrieves all addresses saved by a user.
	GetByUserID(ctx context.Context, userID string) ([]*domain.SavedAddress, error)

	// Update updates an existing saved address.
	Update(ctx context.Context, addr *domain.SavedAddress) error

	// Delete removes a saved address.
	Delete(ctx context.Context, id string) error
}
