package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/security"
)

// MockSecurityBroker is a mock implementation of SecurityBroker
type MockSecurityBroker struct {
	mock.Mock
}

func (m *MockSecurityBroker) GetCurrentUser(ctx context.Context) *security.User {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*security.User)
}

func (m *MockSecurityBroker) IsCurrentUserAuthenticated(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockSecurityBroker) IsInRole(ctx context.Context, role string) bool {
	args := m.Called(ctx, role)
	return args.Bool(0)
}

func (m *MockSecurityBroker) ValidateCaptcha(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSecurityBroker) GetIPAddress(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

// MockSecurityAuditBroker is a mock implementation of SecurityAuditBroker
type MockSecurityAuditBroker struct {
	mock.Mock
}

func (m *MockSecurityAuditBroker) ApplyAddAuditValues(ctx context.Context, audit *models.Audit) {
	m.Called(ctx, audit)
}

func (m *MockSecurityAuditBroker) ApplyModifyAuditValues(ctx context.Context, audit *models.Audit) {
	m.Called(ctx, audit)
}

func (m *MockSecurityAuditBroker) EnsureAddAuditValuesRemainUnchangedOnModify(
	ctx context.Context, audit *models.Audit, stored *models.Audit) error {
	args := m.Called(ctx, audit, stored)
	return args.Error(0)
}

func (m *MockSecurityAuditBroker) GetCurrentUserID(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

// MockAuditBroker is a mock implementation of AuditBroker
type MockAuditBroker struct {
	mock.Mock
}

func (m *MockAuditBroker) LogInformation(
	ctx context.Context, category, action, message string, data interface{}, correlationID string) error {
	args := m.Called(ctx, category, action, message, data, correlationID)
	return args.Error(0)
}

// MockNotificationClient is a mock implementation of NotificationClient
type MockNotificationClient struct {
	mock.Mock
}

func (m *MockNotificationClient) SendEmail(ctx context.Context, templateID, emailAddress string,
	personalisation map[string]interface{}, reference string) (string, error) {
	args := m.Called(ctx, templateID, emailAddress, personalisation, reference)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationClient) SendSMS(ctx context.Context, templateID, phoneNumber string,
	personalisation map[string]interface{}, reference string) (string, error) {
	args := m.Called(ctx, templateID, phoneNumber, personalisation, reference)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationClient) SendLetter(ctx context.Context, templateID string,
	personalisation map[string]interface{}, reference string) (string, error) {
	args := m.Called(ctx, templateID, personalisation, reference)
	return args.String(0), args.Error(1)
}

// MockIDGenerator is a mock implementation of utils.IDGenerator
type MockIDGenerator struct {
	mock.Mock
}

func (m *MockIDGenerator) NewID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIDGenerator) NewValidationCode() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
