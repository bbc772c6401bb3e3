package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docman/internal/model"
	"docman/internal/service"
)

type MockProfileService struct {
	mock.Mock
}

var _ service.ProfileService = (*MockProfileService)(nil)

func (m *MockProfileService) OnUserCreated(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) AssignLender(ctx context.Context, userID, lenderID string) (*model.Profile, error) {
	args := m.Called(ctx, userID, lenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) LenderFor(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
