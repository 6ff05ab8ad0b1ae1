package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of a foundation entity DAO
type MockStore[P any] struct {
	mock.Mock
}

func (m *MockStore[P]) Insert(ctx context.Context, entity P) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockStore[P]) SelectAll(ctx context.Context) ([]P, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]P), args.Error(1)
}

func (m *MockStore[P]) SelectByID(ctx context.Context, id string) (P, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero P
		return zero, args.Error(1)
	}
	return args.Get(0).(P), args.Error(1)
}

func (m *MockStore[P]) Update(ctx context.Context, entity P, previousUpdatedDate time.Time) error {
	args := m.Called(ctx, entity, previousUpdatedDate)
	return args.Error(0)
}

func (m *MockStore[P]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
