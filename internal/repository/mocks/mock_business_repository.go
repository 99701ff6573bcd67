package mocks

import (
	"context"

	"bizdocs/internal/model"
	"bizdocs/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, b *model.Business) (*model.Business, error) {
	args := m.Called(ctx, b)
	if f, ok := args.Get(0).(func(context.Context, *model.Business) *model.Business); ok {
		return f(ctx, b), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) FindByAPIKey(ctx context.Context, apiKey string) (*model.Business, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) FindByAccountID(ctx context.Context, accountID string) (*model.Business, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Business], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Business]), args.Error(1)
}
