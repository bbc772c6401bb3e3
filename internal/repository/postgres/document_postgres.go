package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"docman/internal/model"
	"docman/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	q Querier
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(q Querier) *DocumentPostgres {
	return &DocumentPostgres{q: q}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, lender_document_id, storage_bucket, storage_key, version_major, version_minor, created_by, created_at`

func scanDocument(s scanner) (*model.Document, error) {
	var (
		d         model.Document
		createdBy sql.NullString
	)
	if err := s.Scan(
		&d.ID,
		&d.LenderDocumentID,
		&d.StorageBucket,
		&d.StorageKey,
		&d.VersionMajor,
		&d.VersionMinor,
		&createdBy,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.CreatedBy = stringPtr(createdBy)
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, lender_document_id, storage_bucket, storage_key, version_major, version_minor, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	row := r.q.QueryRowContext(ctx, q,
		doc.ID,
		doc.LenderDocumentID,
		doc.StorageBucket,
		doc.StorageKey,
		doc.VersionMajor,
		doc.VersionMinor,
		nullString(doc.CreatedBy),
		doc.CreatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	out, err := scanDocument(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Latest returns the newest document of a slot, or nil if the slot has no documents.
func (r *DocumentPostgres) Latest(ctx context.Context, lenderDocumentID string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE lender_document_id = $1
		ORDER BY created_at DESC, version_major DESC, version_minor DESC
		LIMIT 1
	`
	out, err := scanDocument(r.q.QueryRowContext(ctx, q, lenderDocumentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// List returns documents newest first, optionally filtered by lender and slot.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	var (
		where []string
		args  []any
	)
	if f.LenderID != "" {
		args = append(args, f.LenderID)
		where = append(where, fmt.Sprintf("ld.lender_id = $%d", len(args)))
	}
	if f.LenderDocumentID != "" {
		args = append(args, f.LenderDocumentID)
		where = append(where, fmt.Sprintf("d.lender_document_id = $%d", len(args)))
	}

	q := `
		SELECT d.id, d.lender_document_id, d.storage_bucket, d.storage_key, d.version_major, d.version_minor, d.created_by, d.created_at
		FROM documents d
		JOIN lender_documents ld ON ld.id = d.lender_document_id`
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tORDER BY d.created_at DESC, d.version_major DESC, d.version_minor DESC"

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
