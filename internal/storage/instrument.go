package storage

import (
	"context"
	"errors"

	"docman/internal/metrics"
)

type instrumented struct {
	next    Storage
	backend string
}

// Instrument wraps s so every Get and Put is counted in metrics.BlobOperations.
func Instrument(s Storage, backend string) Storage {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) Bucket() string {
	return i.next.Bucket()
}

func (i *instrumented) Get(ctx context.Context, key string) (string, error) {
	content, err := i.next.Get(ctx, key)
	i.observe("get", err)
	return content, err
}

func (i *instrumented) Put(ctx context.Context, key string, content string) error {
	err := i.next.Put(ctx, key, content)
	i.observe("put", err)
	return err
}

func (i *instrumented) observe(op string, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.BlobOperations.WithLabelValues(i.backend, op, outcome).Inc()
}
