package repository

import (
	"context"

	"medride/internal/domain"
)

// DisputeRepository defines the persistence operations for disputes.
type DisputeRepository interface {
	// Create persists a new dispute.
	Create(ctx context.Context, dispute *domain.Dispute) error

	// GetByID retrieves a dispute by ID.
	GetByID(ctx context.Context, id string) (*domain.Dispute, error)

	// List retrieves disputes, optionally filtered by status, newest first.
	List(ctx context.Context, status domain.DisputeStatus) ([]*domain.Dispute, error)

	// Update updates an existing dispute.
	Update(ctx context.Context, dispute *domain.Dispute) error
}
