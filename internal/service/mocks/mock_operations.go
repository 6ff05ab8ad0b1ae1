package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

// MockOperations is a mock implementation of a foundation entity service
type MockOperations[P any] struct {
	mock.Mock
}

func (m *MockOperations[P]) result(args mock.Arguments) (P, error) {
	if args.Get(0) == nil {
		var zero P
		return zero, args.Error(1)
	}
	return args.Get(0).(P), args.Error(1)
}

func (m *MockOperations[P]) Add(ctx context.Context, entity P) (P, error) {
	return m.result(m.Called(ctx, entity))
}

func (m *MockOperations[P]) Modify(ctx context.Context, entity P) (P, error) {
	return m.result(m.Called(ctx, entity))
}

func (m *MockOperations[P]) RemoveByID(ctx context.Context, id string) (P, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockOperations[P]) RetrieveByID(ctx context.Context, id string) (P, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockOperations[P]) RetrieveAll(ctx context.Context) ([]P, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]P), args.Error(1)
}

// MockNotificationOperations is a mock implementation of NotificationOperations
type MockNotificationOperations struct {
	mock.Mock
}

func (m *MockNotificationOperations) SendCodeNotification(ctx context.Context, info *models.NotificationInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockNotificationOperations) SendSubmissionSuccessNotification(
	ctx context.Context, info *models.NotificationInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockNotificationOperations) SendSubscriberUsageNotification(
	ctx context.Context, info *models.NotificationInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}
