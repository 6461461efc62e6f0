package postgres

import (
	"context"
	"database/sql"
	"errors"

	"medride/internal/domain"
	"medride/internal/repository"
)

// AddressRepository is a PostgreSQL implementation of repository.AddressRepository.
type AddressRepository struct {
	q Querier
}

// NewAddressRepository creates a new PostgreSQL saved address repository.
func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{q: db}
}

const addressColumns = `id, user_id, label, line1, city, state, zip, lat, lng, created_at`

// Create persists a new saved address.
func (r *AddressRepository) Create(ctx context.Context, addr *domain.SavedAddress) error {
	query := `
		INSERT INTO saved_addresses (id, user_id, label, line1, city, state, zip, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		addr.ID,
		addr.UserID,
		addr.Label,
		addr.Line1,
		addr.City,
		addr.State,
		addr.Zip,
		addr.Lat,
		addr.Lng,
		addr.CreatedAt,
	)
	return mapWriteError(err)
}

// GetByID retrieves a saved address by ID.
func (r *AddressRepository) GetByID(ctx context.Context, id string) (*domain.SavedAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM saved_addresses WHERE id = $1`

	var addr domain.SavedAddress
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&addr.ID,
		&addr.UserID,
		&addr.Label,
		&addr.Line1,
		&addr.City,
		&addr.State,
		&addr.Zip,
		&addr.Lat,
		&addr.Lng,
		&addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &addr, nil
}

// GetByUserID retrieves all addresses saved by a user.
func (r *AddressRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM saved_addresses WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []*domain.SavedAddress
	for rows.Next() {
		var addr domain.SavedAddress
		if err := rows.Scan(
			&addr.ID,
			&addr.UserID,
			&addr.Label,
			&addr.Line1,
			&addr.City,
			&addr.State,
			&addr.Zip,
			&addr.Lat,
			&addr.Lng,
			&addr.CreatedAt,
		); err != nil {
			return nil, err
		}
		addrs = append(addrs, &addr)
	}
	return addrs, rows.Err()
}

// Update updates an existing saved address.
func (r *AddressRepository) Update(ctx context.Context, addr *domain.SavedAddress) error {
	query := `
		UPDATE saved_addresses
		SET label = $1, line1 = $2, city = $3, state = $4, zip = $5, lat = $6, lng = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		addr.Label,
		addr.Line1,
		addr.City,
		addr.State,
		addr.Zip,
		addr.Lat,
		addr.Lng,
		addr.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a saved address.
func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM saved_addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
