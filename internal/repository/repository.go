package repository

import (
	"context"
	"errors"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres for production, memory for tests and local runs).

var (
	// ErrNotFound is returned when a looked-up row, or a row referenced by an insert, does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// Store groups the repositories and runs work inside a single transaction.
type Store interface {
	Lenders() LenderRepository
	Profiles() ProfileRepository
	LenderDocuments() LenderDocumentRepository
	Documents() DocumentRepository

	// WithinTx runs fn inside one transaction. The Store passed to fn is bound to that
	// transaction; fn's error (or a panic) rolls everything back. Calling WithinTx on a
	// transaction-bound Store reuses the current transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
