package mocks

import (
	"context"

	"bizdocs/internal/model"
	"bizdocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) Register(ctx context.Context, name string) (*model.Business, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessService) Authenticate(ctx context.Context, apiKey string) (*model.Business, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessService) List(ctx context.Context, limit, offset int) (*service.BusinessListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BusinessListResult), args.Error(1)
}
