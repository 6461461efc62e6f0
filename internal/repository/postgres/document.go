package postgres

import (
	"context"
	"database/sql"
	"errors"

	"medride/internal/domain"
	"medride/internal/repository"
)

// DocumentRepository is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentRepository struct {
	q Querier
}

// NewDocumentRepository creates a new PostgreSQL document repository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{q: db}
}

// NewDocumentRepositoryWithTx creates a document repository using a transaction.
func NewDocumentRepositoryWithTx(tx *sql.Tx) *DocumentRepository {
	return &DocumentRepository{q: tx}
}

const documentColumns = `id, driver_id, type, object_key, status, reject_reason, submitted_at, reviewed_at, reviewed_by`

// Create persists a new document submission.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.DriverDocument) error {
	query := `
		INSERT INTO driver_documents (id, driver_id, type, object_key, status, reject_reason, submitted_at, reviewed_at, reviewed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		doc.ID,
		doc.DriverID,
		doc.Type,
		doc.ObjectKey,
		doc.Status,
		nullString(doc.RejectReason),
		doc.SubmittedAt,
		nullTime(doc.ReviewedAt),
		nullString(doc.ReviewedBy),
	)
	return mapWriteError(err)
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents WHERE id = $1`

	doc, err := scanDocument(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// GetByDriverID retrieves all documents submitted by a driver.
func (r *DocumentRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents WHERE driver_id = $1 ORDER BY submitted_at DESC`
	return r.queryMany(ctx, query, driverID)
}

// GetByStatus retrieves documents in the given review state, oldest first
// so the review queue is FIFO.
func (r *DocumentRepository) GetByStatus(ctx context.Context, status domain.DocumentStatus) ([]*domain.DriverDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM driver_documents WHERE status = $1 ORDER BY submitted_at ASC LIMIT 200`
	return r.queryMany(ctx, query, status)
}

func (r *DocumentRepository) queryMany(ctx context.Context, query string, arg any) ([]*domain.DriverDocument, error) {
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.DriverDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Update updates an existing document.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.DriverDocument) error {
	query := `
		UPDATE driver_documents
		SET object_key = $1, status = $2, reject_reason = $3, submitted_at = $4, reviewed_at = $5, reviewed_by = $6
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		doc.ObjectKey,
		doc.Status,
		nullString(doc.RejectReason),
		doc.SubmittedAt,
		nullTime(doc.ReviewedAt),
		nullString(doc.ReviewedBy),
		doc.ID,
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

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*domain.DriverDocument, error) {
	var doc domain.DriverDocument
	var rejectReason sql.NullString
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullString

	if err := s.Scan(
		&doc.ID,
		&doc.DriverID,
		&doc.Type,
		&doc.ObjectKey,
		&doc.Status,
		&rejectReason,
		&doc.SubmittedAt,
		&reviewedAt,
		&reviewedBy,
	); err != nil {
		return nil, err
	}

	if rejectReason.Valid {
		doc.RejectReason = rejectReason.String
	}
	if reviewedAt.Valid {
		doc.ReviewedAt = reviewedAt.Time
	}
	if reviewedBy.Valid {
		doc.ReviewedBy = reviewedBy.String
	}

	return &doc, nil
}
