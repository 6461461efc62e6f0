package postgres

import (
	"context"
	"database/sql"
	"errors"

	"medride/internal/domain"
	"medride/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create persists a new driver profile.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (user_id, vehicle_type, vehicle_plate, license_number, service_radius_km, status, rating, on_duty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.UserID,
		driver.VehicleType,
		nullString(driver.VehiclePlate),
		nullString(driver.LicenseNumber),
		driver.ServiceRadiusKm,
		driver.Status,
		driver.Rating,
		driver.OnDuty,
		driver.CreatedAt,
	)
	return mapWriteError(err)
}

const driverColumns = `user_id, COALESCE(vehicle_type, ''), COALESCE(vehicle_plate, ''), COALESCE(license_number, ''), service_radius_km, status, rating, on_duty, created_at`

// GetByUserID retrieves a driver profile by its user ID.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&driver.UserID,
		&driver.VehicleType,
		&driver.VehiclePlate,
		&driver.LicenseNumber,
		&driver.ServiceRadiusKm,
		&driver.Status,
		&driver.Rating,
		&driver.OnDuty,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetAll retrieves all driver profiles.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.UserID,
			&driver.VehicleType,
			&driver.VehiclePlate,
			&driver.LicenseNumber,
			&driver.ServiceRadiusKm,
			&driver.Status,
			&driver.Rating,
			&driver.OnDuty,
			&driver.CreatedAt,
		); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// Update updates an existing driver profile.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET vehicle_type = $1, vehicle_plate = $2, license_number = $3, service_radius_km = $4, status = $5, rating = $6, on_duty = $7
		WHERE user_id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		driver.VehicleType,
		nullString(driver.VehiclePlate),
		nullString(driver.LicenseNumber),
		driver.ServiceRadiusKm,
		driver.Status,
		driver.Rating,
		driver.OnDuty,
		driver.UserID,
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

// UpdateStatus updates the verification status of a driver.
func (r *DriverRepository) UpdateStatus(ctx context.Context, userID string, status domain.DriverStatus) error {
	query := `UPDATE drivers SET status = $1 WHERE user_id = $2`

	result, err := r.q.ExecContext(ctx, query, status, userID)
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

// SetOnDuty updates the on-duty flag of a driver.
func (r *DriverRepository) SetOnDuty(ctx context.Context, userID string, onDuty bool) error {
	query := `UPDATE drivers SET on_duty = $1 WHERE user_id = $2`

	result, err := r.q.ExecContext(ctx, query, onDuty, userID)
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
