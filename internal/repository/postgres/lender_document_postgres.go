package postgres

import (
	"context"
	"database/sql"

	"docman/internal/model"
	"docman/internal/repository"
)

// LenderDocumentPostgres is a PostgreSQL implementation of repository.LenderDocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type LenderDocumentPostgres struct {
	q Querier
}

// NewLenderDocumentPostgres creates a new LenderDocumentPostgres repository.
func NewLenderDocumentPostgres(q Querier) *LenderDocumentPostgres {
	return &LenderDocumentPostgres{q: q}
}

var _ repository.LenderDocumentRepository = (*LenderDocumentPostgres)(nil)

const lenderDocumentColumns = `id, lender_id, name, active_document_id, active_version, created_at`

func scanLenderDocument(s scanner) (*model.LenderDocument, error) {
	var (
		ld     model.LenderDocument
		active sql.NullString
	)
	if err := s.Scan(&ld.ID, &ld.LenderID, &ld.Name, &active, &ld.ActiveVersion, &ld.CreatedAt); err != nil {
		return nil, err
	}
	ld.ActiveDocumentID = stringPtr(active)
	return &ld, nil
}

// Create inserts a new slot row and returns the stored record.
func (r *LenderDocumentPostgres) Create(ctx context.Context, ld *model.LenderDocument) (*model.LenderDocument, error) {
	const q = `
		INSERT INTO lender_documents (id, lender_id, name, active_document_id, active_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + lenderDocumentColumns
	row := r.q.QueryRowContext(ctx, q,
		ld.ID,
		ld.LenderID,
		ld.Name,
		nullString(ld.ActiveDocumentID),
		ld.ActiveVersion,
		ld.CreatedAt,
	)
	out, err := scanLenderDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single slot by its ID.
func (r *LenderDocumentPostgres) FindByID(ctx context.Context, id string) (*model.LenderDocument, error) {
	const q = `SELECT ` + lenderDocumentColumns + ` FROM lender_documents WHERE id = $1`
	out, err := scanLenderDocument(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Lock fetches a slot and locks its row until the transaction ends, serializing versioning
// operations on the same slot while leaving other slots untouched.
func (r *LenderDocumentPostgres) Lock(ctx context.Context, id string) (*model.LenderDocument, error) {
	const q = `SELECT ` + lenderDocumentColumns + ` FROM lender_documents WHERE id = $1 FOR UPDATE`
	out, err := scanLenderDocument(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// List returns slots ordered by name, optionally restricted to one lender.
func (r *LenderDocumentPostgres) List(ctx context.Context, f repository.LenderDocumentFilter) ([]model.LenderDocument, error) {
	q := `SELECT ` + lenderDocumentColumns + ` FROM lender_documents`
	var args []any
	if f.LenderID != "" {
		q += ` WHERE lender_id = $1`
		args = append(args, f.LenderID)
	}
	q += ` ORDER BY name, id`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LenderDocument, 0)
	for rows.Next() {
		ld, err := scanLenderDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ld)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetActive updates the active document pointer and tracked version.
func (r *LenderDocumentPostgres) SetActive(ctx context.Context, id string, documentID string, version int) error {
	const q = `UPDATE lender_documents SET active_document_id = $2, active_version = $3 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id, documentID, version)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
