package service

import (
	"context"
	"time"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/security"
)

// Store is the storage contract every foundation entity's DAO satisfies.
// SelectByID returns nil, nil when no row exists.
type Store[P any] interface {
	Insert(ctx context.Context, entity P) error
	SelectAll(ctx context.Context) ([]P, error)
	SelectByID(ctx context.Context, id string) (P, error)
	Update(ctx context.Context, entity P, previousUpdatedDate time.Time) error
	Delete(ctx context.Context, id string) error
}

// SecurityBroker answers identity questions about the current request
type SecurityBroker interface {
	GetCurrentUser(ctx context.Context) *security.User
	IsCurrentUserAuthenticated(ctx context.Context) bool
	IsInRole(ctx context.Context, role string) bool
	ValidateCaptcha(ctx context.Context) (bool, error)
	GetIPAddress(ctx context.Context) string
}

// SecurityAuditBroker stamps and checks audit fields
type SecurityAuditBroker interface {
	ApplyAddAuditValues(ctx context.Context, audit *models.Audit)
	ApplyModifyAuditValues(ctx context.Context, audit *models.Audit)
	EnsureAddAuditValuesRemainUnchangedOnModify(ctx context.Context, audit *models.Audit, stored *models.Audit) error
	GetCurrentUserID(ctx context.Context) string
}

// AuditBroker records structured audit events
type AuditBroker interface {
	LogInformation(ctx context.Context, category, action, message string, data interface{}, correlationID string) error
}

// NotificationClient delivers messages through the provider
type NotificationClient interface {
	SendEmail(ctx context.Context, templateID, emailAddress string,
		personalisation map[string]interface{}, reference string) (string, error)
	SendSMS(ctx context.Context, templateID, phoneNumber string,
		personalisation map[string]interface{}, reference string) (string, error)
	SendLetter(ctx context.Context, templateID string,
		personalisation map[string]interface{}, reference string) (string, error)
}

// PatientOperations is the patient foundation service contract
type PatientOperations interface {
	Add(ctx context.Context, patient *models.Patient) (*models.Patient, error)
	Modify(ctx context.Context, patient *models.Patient) (*models.Patient, error)
	RemoveByID(ctx context.Context, id string) (*models.Patient, error)
	RetrieveByID(ctx context.Context, id string) (*models.Patient, error)
	RetrieveAll(ctx context.Context) ([]*models.Patient, error)
}

// DecisionOperations is the decision foundation service contract
type DecisionOperations interface {
	Add(ctx context.Context, decision *models.Decision) (*models.Decision, error)
	Modify(ctx context.Context, decision *models.Decision) (*models.Decision, error)
	RemoveByID(ctx context.Context, id string) (*models.Decision, error)
	RetrieveByID(ctx context.Context, id string) (*models.Decision, error)
	RetrieveAll(ctx context.Context) ([]*models.Decision, error)
}

// ConsumerOperations is the consumer foundation service contract
type ConsumerOperations interface {
	Add(ctx context.Context, consumer *models.Consumer) (*models.Consumer, error)
	Modify(ctx context.Context, consumer *models.Consumer) (*models.Consumer, error)
	RemoveByID(ctx context.Context, id string) (*models.Consumer, error)
	RetrieveByID(ctx context.Context, id string) (*models.Consumer, error)
	RetrieveAll(ctx context.Context) ([]*models.Consumer, error)
}

// ConsumerAdoptionOperations is the consumer adoption foundation service contract
type ConsumerAdoptionOperations interface {
	Add(ctx context.Context, adoption *models.ConsumerAdoption) (*models.ConsumerAdoption, error)
	Modify(ctx context.Context, adoption *models.ConsumerAdoption) (*models.ConsumerAdoption, error)
	RemoveByID(ctx context.Context, id string) (*models.ConsumerAdoption, error)
	RetrieveByID(ctx context.Context, id string) (*models.ConsumerAdoption, error)
	RetrieveAll(ctx context.Context) ([]*models.ConsumerAdoption, error)
}

// NotificationOperations is the notification foundation service contract
type NotificationOperations interface {
	SendCodeNotification(ctx context.Context, info *models.NotificationInfo) error
	SendSubmissionSuccessNotification(ctx context.Context, info *models.NotificationInfo) error
	SendSubscriberUsageNotification(ctx context.Context, info *models.NotificationInfo) error
}
