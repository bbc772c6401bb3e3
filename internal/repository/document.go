package repository

import (
	"context"

	"docman/internal/model"
)

// LenderDocumentFilter narrows List results. Zero values match everything.
type LenderDocumentFilter struct {
	LenderID string
}

// LenderDocumentRepository defines data access for document slots.
// No business logic here, only persistence.
type LenderDocumentRepository interface {
	// Create inserts a new slot. It returns ErrConflict if the lender already has a slot with that name
	// and ErrNotFound if the lender does not exist.
	Create(ctx context.Context, ld *model.LenderDocument) (*model.LenderDocument, error)

	// FindByID returns a slot by its ID.
	FindByID(ctx context.Context, id string) (*model.LenderDocument, error)

	// Lock returns a slot by its ID and holds a row lock on it until the surrounding
	// transaction ends. Outside a transaction it behaves like FindByID.
	Lock(ctx context.Context, id string) (*model.LenderDocument, error)

	// List returns slots ordered by name.
	List(ctx context.Context, f LenderDocumentFilter) ([]model.LenderDocument, error)

	// SetActive points the slot at documentID and records its major version.
	SetActive(ctx context.Context, id string, documentID string, version int) error
}

// DocumentFilter narrows List results. Zero values match everything.
type DocumentFilter struct {
	LenderID         string
	LenderDocumentID string
}

// DocumentRepository defines data access for document versions.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller provides every field, including ID and CreatedAt.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Latest returns the most recently created document of a slot, or nil when the slot has none.
	// Ties on created_at are broken by the higher version.
	Latest(ctx context.Context, lenderDocumentID string) (*model.Document, error)

	// List returns documents newest first.
	List(ctx context.Context, f DocumentFilter) ([]model.Document, error)
}
