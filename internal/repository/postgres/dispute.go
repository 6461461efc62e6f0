package postgres

import (
	"context"
	"database/sql"
	"errors"

	"medride/internal/domain"
	"medride/internal/repository"
)

// DisputeRepository is a PostgreSQL implementation of repository.DisputeRepository.
type DisputeRepository struct {
	q Querier
}

// NewDisputeRepository creates a new PostgreSQL dispute repository.
func NewDisputeRepository(db *sql.DB) *DisputeRepository {
	return &DisputeRepository{q: db}
}

const disputeColumns = `id, ride_id, opened_by, against, reason, status, resolution, created_at, resolved_at, resolved_by`

// Create persists a new dispute.
func (r *DisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	query := `
		INSERT INTO disputes (id, ride_id, opened_by, against, reason, status, resolution, created_at, resolved_at, resolved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		dispute.ID,
		dispute.RideID,
		dispute.OpenedBy,
		dispute.Against,
		dispute.Reason,
		dispute.Status,
		nullString(dispute.Resolution),
		dispute.CreatedAt,
		nullTime(dispute.ResolvedAt),
		nullString(dispute.ResolvedBy),
	)
	return mapWriteError(err)
}

// GetByID retrieves a dispute by ID.
func (r *DisputeRepository) GetByID(ctx context.Context, id string) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`

	dispute, err := scanDispute(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return dispute, nil
}

// List retrieves disputes, optionally filtered by status, newest first.
func (r *DisputeRepository) List(ctx context.Context, status domain.DisputeStatus) ([]*domain.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + ` FROM disputes
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT 200
	`

	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []*domain.Dispute
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, dispute)
	}
	return disputes, rows.Err()
}

// Update updates an existing dispute.
func (r *DisputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	query := `
		UPDATE disputes
		SET status = $1, resolution = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		dispute.Status,
		nullString(dispute.Resolution),
		nullTime(dispute.ResolvedAt),
		nullString(dispute.ResolvedBy),
		dispute.ID,
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

func scanDispute(s scanner) (*domain.Dispute, error) {
	var dispute domain.Dispute
	var resolution sql.NullString
	var resolvedAt sql.NullTime
	var resolvedBy sql.NullString

	if err := s.Scan(
		&dispute.ID,
		&dispute.RideID,
		&dispute.OpenedBy,
		&dispute.Against,
		&dispute.Reason,
		&dispute.Status,
		&resolution,
		&dispute.CreatedAt,
		&resolvedAt,
		&resolvedBy,
	); err != nil {
		return nil, err
	}

	if resolution.Valid {
		dispute.Resolution = resolution.String
	}
	if resolvedAt.Valid {
		dispute.ResolvedAt = resolvedAt.Time
	}
	if resolvedBy.Valid {
		dispute.ResolvedBy = resolvedBy.String
	}

	return &dispute, nil
}
