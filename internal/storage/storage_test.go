package storage

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docman/internal/config"
	"docman/internal/metrics"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		dir := t.TempDir()
		s, err := New(ctx, config.StorageConfig{Backend: config.BackendLocal, LocalDir: dir})
		require.NoError(t, err)
		assert.Equal(t, dir, s.Bucket())
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Backend: "tape"})
		assert.EqualError(t, err, `unknown storage backend "tape"`)
	})

	t.Run("minio missing endpoint", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Backend: config.BackendMinIO})
		assert.EqualError(t, err, "minio endpoint is required")
	})

	t.Run("s3 missing bucket", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Backend: config.BackendS3})
		assert.EqualError(t, err, "s3 bucket is required")
	})
}

func TestValidateMinIO(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MinIOConfig
		wantErr string
	}{
		{"missing endpoint", config.MinIOConfig{}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "minio bucket is required"},
		{"valid", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "docs"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMinIO(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	s := Instrument(local, "test-backend")

	putOK := metrics.BlobOperations.WithLabelValues("test-backend", "put", metrics.OutcomeSuccess)
	getMissing := metrics.BlobOperations.WithLabelValues("test-backend", "get", "not_found")
	putBad := metrics.BlobOperations.WithLabelValues("test-backend", "put", metrics.OutcomeError)

	beforePut, beforeMissing, beforeBad := testutil.ToFloat64(putOK), testutil.ToFloat64(getMissing), testutil.ToFloat64(putBad)

	require.NoError(t, s.Put(ctx, "a/b", "c"))
	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Put(ctx, "../x", "c"), ErrInvalidKey)

	assert.Equal(t, beforePut+1, testutil.ToFloat64(putOK))
	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(getMissing))
	assert.Equal(t, beforeBad+1, testutil.ToFloat64(putBad))
	assert.Equal(t, local.Bucket(), s.Bucket())
}
