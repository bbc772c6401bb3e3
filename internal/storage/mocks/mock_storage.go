package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Put(ctx context.Context, key string, content string) error {
	args := m.Called(ctx, key, content)
	return args.Error(0)
}

func (m *MockStorage) Bucket() string {
	args := m.Called()
	return args.String(0)
}
