package repository

import (
	"context"

	"medride/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// Create persists a new driver profile.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByUserID retrieves a driver profile by its user ID.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// GetAll retrieves all driver profiles.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// Update updates an existing driver profile.
	Update(ctx context.Context, driver *domain.Driver) error

	// UpdateStatus updates the verification status of a driver.
	UpdateStatus(ctx context.Context, userID string, status domain.DriverStatus) error

	// SetOnDuty updates the on-duty flag of a driver.
	SetOnDuty(ctx context.Context, userID string, onDuty bool) error
}

// DocumentRepository defines the persistence operations for driver documents.
type DocumentRepository interface {
	// Create persists a new document submission.
	Create(ctx context.Context, doc *domain.DriverDocument) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*domain.DriverDocument, error)

	// GetByDriverID retrieves all documents submitted by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.DriverDocument, error)

	// GetByStatus retrieves documents in the given review state.
	GetByStatus(ctx context.Context, status domain.DocumentStatus) ([]*domain.DriverDocument, error)

	// Update updates an existing document.
	Update(ctx context.Context, doc *domain.DriverDocument) error
}
