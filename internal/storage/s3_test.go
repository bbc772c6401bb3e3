package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docman/internal/config"
)

// fakeS3 keeps objects in a map and mimics the SDK's NoSuchKey behaviour.
type fakeS3 struct {
	objects map[string]string
	headErr error
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	v, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(v))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestS3_PutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := newS3WithClient(ctx, newFakeS3(), "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", s.Bucket())

	key := "prod/7-termsofuse_3_0"
	require.NoError(t, s.Put(ctx, key, "terms"))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "terms", got)
}

func TestS3_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := newS3WithClient(ctx, newFakeS3(), "docs")
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3_PutError(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.putErr = errors.New("throttled")
	s, err := newS3WithClient(ctx, fake, "docs")
	require.NoError(t, err)

	err = s.Put(ctx, "k", "v")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestS3_BucketUnreachable(t *testing.T) {
	fake := newFakeS3()
	fake.headErr = errors.New("forbidden")

	_, err := newS3WithClient(context.Background(), fake, "docs")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to access bucket docs")
}

func TestNewS3_Validation(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{AccessKeyID: "a", SecretAccessKey: "b"})
	assert.EqualError(t, err, "s3 bucket is required")

	_, err = NewS3(context.Background(), config.S3Config{Bucket: "docs"})
	assert.EqualError(t, err, "s3 credentials are required")
}
