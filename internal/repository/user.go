package repository

import (
	"context"

	"medride/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves users, optionally filtered by role.
	GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// UpdateStatus updates the moderation status of a user.
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
}
