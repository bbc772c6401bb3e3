package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docman/internal/model"
	"docman/internal/service"
)

type MockLenderService struct {
	mock.Mock
}

var _ service.LenderService = (*MockLenderService)(nil)

func (m *MockLenderService) Create(ctx context.Context, actor model.Actor, name string) (*model.Lender, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

func (m *MockLenderService) Get(ctx context.Context, actor model.Actor, id string) (*model.Lender, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

func (m *MockLenderService) List(ctx context.Context, actor model.Actor) ([]model.Lender, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lender), args.Error(1)
}

type MockLenderDocumentService struct {
	mock.Mock
}

var _ service.LenderDocumentService = (*MockLenderDocumentService)(nil)

func (m *MockLenderDocumentService) Create(ctx context.Context, actor model.Actor, lenderID, name string) (*model.LenderDocument, error) {
	args := m.Called(ctx, actor, lenderID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderDocument), args.Error(1)
}

func (m *MockLenderDocumentService) Get(ctx context.Context, actor model.Actor, id string) (*model.LenderDocument, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderDocument), args.Error(1)
}

func (m *MockLenderDocumentService) List(ctx context.Context, actor model.Actor) ([]model.LenderDocument, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LenderDocument), args.Error(1)
}
