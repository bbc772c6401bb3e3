package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docman/internal/model"
	"docman/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) CreateDraft(ctx context.Context, actor model.Actor, lenderDocumentID, content string) (*model.Document, error) {
	args := m.Called(ctx, actor, lenderDocumentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Publish(ctx context.Context, actor model.Actor, documentID string) (*service.DocumentContent, bool, error) {
	args := m.Called(ctx, actor, documentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*service.DocumentContent), args.Bool(1), args.Error(2)
}

func (m *MockDocumentService) Revert(ctx context.Context, actor model.Actor, documentID string) (*service.DocumentContent, bool, error) {
	args := m.Called(ctx, actor, documentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*service.DocumentContent), args.Bool(1), args.Error(2)
}

func (m *MockDocumentService) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) GetContent(ctx context.Context, actor model.Actor, id string) (*service.DocumentContent, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentContent), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor model.Actor, lenderDocumentID string) ([]model.Document, error) {
	args := m.Called(ctx, actor, lenderDocumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
