package postgres

import (
	"context"
	"database/sql"
	"errors"

	"medride/internal/domain"
	"medride/internal/repository"
)

// BidRepository is a PostgreSQL implementation of repository.BidRepository.
type BidRepository struct {
	q Querier
}

// NewBidRepository creates a new PostgreSQL bid repository.
func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{q: db}
}

// NewBidRepositoryWithTx creates a bid repository using a transaction.
func NewBidRepositoryWithTx(tx *sql.Tx) *BidRepository {
	return &BidRepository{q: tx}
}

const bidColumns = `id, ride_id, driver_id, amount, COALESCE(note, ''), status, created_at`

// Create persists a new bid.
func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	query := `
		INSERT INTO bids (id, ride_id, driver_id, amount, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		bid.ID,
		bid.RideID,
		bid.DriverID,
		bid.Amount,
		nullString(bid.Note),
		bid.Status,
		bid.CreatedAt,
	)
	return mapWriteError(err)
}

// GetByID retrieves a bid by ID.
func (r *BidRepository) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`

	bid, err := scanBid(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return bid, nil
}

// GetByRideID retrieves all bids on a ride, newest first.
func (r *BidRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE ride_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

// GetPendingByRideAndDriver retrieves a driver's live bid on a ride, if any.
func (r *BidRepository) GetPendingByRideAndDriver(ctx context.Context, rideID, driverID string) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE ride_id = $1 AND driver_id = $2 AND status = 'PENDING'`

	bid, err := scanBid(r.q.QueryRowContext(ctx, query, rideID, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return bid, nil
}

// UpdateStatus updates the status of a bid.
func (r *BidRepository) UpdateStatus(ctx context.Context, id string, status domain.BidStatus) error {
	query := `UPDATE bids SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// DeclineSiblings moves all PENDING bids on a ride except the given one
// to DECLINED, returning the IDs of the declined bids.
func (r *BidRepository) DeclineSiblings(ctx context.Context, rideID, acceptedBidID string) ([]string, error) {
	query := `
		UPDATE bids SET status = 'DECLINED'
		WHERE ride_id = $1 AND id <> $2 AND status = 'PENDING'
		RETURNING id
	`

	rows, err := r.q.QueryContext(ctx, query, rideID, acceptedBidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var declined []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		declined = append(declined, id)
	}
	return declined, rows.Err()
}

func scanBid(s scanner) (*domain.Bid, error) {
	var bid domain.Bid
	if err := s.Scan(
		&bid.ID,
		&bid.RideID,
		&bid.DriverID,
		&bid.Amount,
		&bid.Note,
		&bid.Status,
		&bid.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &bid, nil
}
