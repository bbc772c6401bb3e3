package storage

import (
	"context"
	"errors"
	"fmt"

	"docman/internal/config"
)

// Package storage contains the blob store abstraction holding document content,
// with filesystem, MinIO and AWS S3 backends behind one interface.

var (
	ErrNotFound   = errors.New("storage: key not found")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Storage is a key -> content store. Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the content stored under key. It fails with ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Put stores content under key, overwriting any previous content.
	Put(ctx context.Context, key string, content string) error
	// Bucket names the namespace (bucket or root directory) the backend writes into.
	Bucket() string
}

// New builds the backend selected by cfg.Backend and instruments it with blob metrics.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Backend {
	case config.BackendLocal:
		s, err = NewLocal(cfg.LocalDir)
	case config.BackendMinIO:
		s, err = NewMinIO(ctx, cfg.MinIO)
	case config.BackendS3:
		s, err = NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Backend), nil
}
