package service

import (
	"errors"
	"fmt"

	"docman/internal/repository"
	"docman/internal/storage"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStorageFailure   = errors.New("storage failure")
)

// repoErr translates repository sentinels into service sentinels, naming the entity involved.
func repoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s already exists", ErrInvalidRequest, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorageFailure, what, err)
	}
}

// txErr types an error returned by WithinTx. Errors already translated inside the
// transaction pass through; begin and commit failures become ErrStorageFailure.
func txErr(err error) error {
	if err == nil || isServiceErr(err) {
		return err
	}
	return fmt.Errorf("%w: transaction: %w", ErrStorageFailure, err)
}

func isServiceErr(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidRequest, ErrPermissionDenied, ErrStorageFailure} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// blobErr translates blob store failures. A missing key stays distinguishable so
// read-after-write races can be retried by the caller.
func blobErr(err error, key string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: content %s: %w", ErrNotFound, key, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, key, err)
}
