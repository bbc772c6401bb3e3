package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docman/internal/config"
)

const noSuchKeyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeMinIO answers the path-style S3 calls the MinIO client makes.
type fakeMinIO struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string]string
}

func newFakeMinIO(t *testing.T) (*fakeMinIO, *httptest.Server) {
	t.Helper()
	f := &fakeMinIO{buckets: map[string]bool{}, objects: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeMinIO) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case key == "" && r.Method == http.MethodGet && r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
		}
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
	case r.Method == http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+key] = string(b)
		w.Header().Set("ETag", `"fake-etag"`)
	case r.Method == http.MethodGet:
		v, ok := f.objects[bucket+"/"+key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, noSuchKeyXML)
			return
		}
		w.Header().Set("ETag", `"fake-etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(v)))
		_, _ = io.WriteString(w, v)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newTestMinIO(t *testing.T, endpoint string) Storage {
	t.Helper()
	s, err := NewMinIO(context.Background(), config.MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "docs",
	})
	require.NoError(t, err)
	return s
}

func TestMinIO_PutGet_RoundTrip(t *testing.T) {
	fake, srv := newFakeMinIO(t)
	s := newTestMinIO(t, strings.TrimPrefix(srv.URL, "http://"))
	ctx := context.Background()

	assert.True(t, fake.buckets["docs"], "bucket is created on startup")
	assert.Equal(t, "docs", s.Bucket())

	key := "prod/7-privacypolicy_1_0"
	require.NoError(t, s.Put(ctx, key, "policy text"))
	assert.Equal(t, "policy text", fake.objects["docs/"+key])

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "policy text", got)

	require.NoError(t, s.Put(ctx, key, "replaced"))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)
}

func TestMinIO_GetNotFound(t *testing.T) {
	_, srv := newFakeMinIO(t)
	s := newTestMinIO(t, strings.TrimPrefix(srv.URL, "http://"))

	_, err := s.Get(context.Background(), "prod/missing_0_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinIOTranslate(t *testing.T) {
	m := &minioStorage{bucket: "docs"}

	err := m.translate("test/k", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "test/k")

	err = m.translate("test/k", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403})
	assert.NotErrorIs(t, err, ErrNotFound)

	boom := errors.New("connection reset")
	assert.ErrorIs(t, m.translate("test/k", boom), boom)
}
