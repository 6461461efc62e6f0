package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medride/internal/domain"
	"medride/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, pickup_address, dropoff_address, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, scheduled_at, mobility_need, COALESCE(notes, ''), status, driver_id, estimated_miles, estimated_fare, final_fare, created_at, started_at, completed_at, cancelled_at, cancel_reason`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, pickup_address, dropoff_address, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, scheduled_at, mobility_need, notes, status, driver_id, estimated_miles, estimated_fare, final_fare, created_at, started_at, completed_at, cancelled_at, cancel_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		ride.PickupAddress,
		ride.DropoffAddress,
		ride.PickupLat,
		ride.PickupLng,
		ride.DropoffLat,
		ride.DropoffLng,
		ride.ScheduledAt,
		ride.MobilityNeed,
		nullString(ride.Notes),
		ride.Status,
		nullString(ride.DriverID),
		ride.EstimatedMiles,
		ride.EstimatedFare,
		ride.FinalFare,
		ride.CreatedAt,
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
	)
	return mapWriteError(err)
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// List retrieves rides matching the filter, newest first.
func (r *RideRepository) List(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s FROM rides
		WHERE ($1 = '' OR rider_id = $1)
		  AND ($2 = '' OR driver_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC LIMIT %d
	`, rideColumns, limit)

	rows, err := r.q.QueryContext(ctx, query, filter.RiderID, filter.DriverID, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET pickup_address = $1, dropoff_address = $2, pickup_lat = $3, pickup_lng = $4, dropoff_lat = $5, dropoff_lng = $6, scheduled_at = $7, mobility_need = $8, notes = $9, status = $10, driver_id = $11, estimated_miles = $12, estimated_fare = $13, final_fare = $14, started_at = $15, completed_at = $16, cancelled_at = $17, cancel_reason = $18
		WHERE id = $19
	`

	result, err := r.q.ExecContext(ctx, query,
		ride.PickupAddress,
		ride.DropoffAddress,
		ride.PickupLat,
		ride.PickupLng,
		ride.DropoffLat,
		ride.DropoffLng,
		ride.ScheduledAt,
		ride.MobilityNeed,
		nullString(ride.Notes),
		ride.Status,
		nullString(ride.DriverID),
		ride.EstimatedMiles,
		ride.EstimatedFare,
		ride.FinalFare,
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
		ride.ID,
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

func scanRide(s scanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString
	var startedAt, completedAt, cancelledAt sql.NullTime
	var cancelReason sql.NullString

	if err := s.Scan(
		&ride.ID,
		&ride.RiderID,
		&ride.PickupAddress,
		&ride.DropoffAddress,
		&ride.PickupLat,
		&ride.PickupLng,
		&ride.DropoffLat,
		&ride.DropoffLng,
		&ride.ScheduledAt,
		&ride.MobilityNeed,
		&ride.Notes,
		&ride.Status,
		&driverID,
		&ride.EstimatedMiles,
		&ride.EstimatedFare,
		&ride.FinalFare,
		&ride.CreatedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&cancelReason,
	); err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if startedAt.Valid {
		ride.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}
	if cancelReason.Valid {
		ride.CancelReason = cancelReason.String
	}

	return &ride, nil
}

// OverrideRepository is a PostgreSQL implementation of repository.OverrideRepository.
type OverrideRepository struct {
	q Querier
}

// NewOverrideRepository creates a new PostgreSQL fare override repository.
func NewOverrideRepository(db *sql.DB) *OverrideRepository {
	return &OverrideRepository{q: db}
}

// NewOverrideRepositoryWithTx creates a fare override repository using a transaction.
func NewOverrideRepositoryWithTx(tx *sql.Tx) *OverrideRepository {
	return &OverrideRepository{q: tx}
}

// Create persists a new fare override.
func (r *OverrideRepository) Create(ctx context.Context, override *domain.FareOverride) error {
	query := `
		INSERT INTO fare_overrides (id, ride_id, admin_id, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		override.ID,
		override.RideID,
		override.AdminID,
		override.Amount,
		override.Reason,
		override.CreatedAt,
	)
	return mapWriteError(err)
}

// GetByRideID retrieves overrides for a ride, newest first.
func (r *OverrideRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.FareOverride, error) {
	query := `
		SELECT id, ride_id, admin_id, amount, reason, created_at
		FROM fare_overrides WHERE ride_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []*domain.FareOverride
	for rows.Next() {
		var o domain.FareOverride
		if err := rows.Scan(&o.ID, &o.RideID, &o.AdminID, &o.Amount, &o.Reason, &o.CreatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, &o)
	}
	return overrides, rows.Err()
}
