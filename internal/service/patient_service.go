package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// PatientService handles validated storage of patients
type PatientService struct {
	pipeline *foundation[models.Patient, *models.Patient]
}

// NewPatientService creates a new PatientService
func NewPatientService(
	store Store[*models.Patient],
	securityAudit SecurityAuditBroker,
	clock utils.Clock,
	recorder serviceerror.Recorder,
	logger *logrus.Logger,
) *PatientService {
	return &PatientService{
		pipeline: newFoundation[models.Patient](
			serviceerror.ContextPatient, "Patient", store, securityAudit, clock, recorder, patientChecks, logger),
	}
}

func patientChecks(patient *models.Patient) []validation.Check {
	checks := []validation.Check{
		validation.Field("Id", validation.IsInvalidID(patient.ID)),
		validation.Field("NhsNumber", validation.IsInvalidNhsNumber(patient.NhsNumber)),
		validation.Field("ValidationCode", validation.IsNotExactLength(patient.ValidationCode, utils.ValidationCodeLength)),
		validation.Field("GivenName", validation.IsInvalidLength(patient.GivenName, 255)),
		validation.Field("Surname", validation.IsInvalidLength(patient.Surname, 255)),
		validation.Field("Email", validation.IsInvalidLength(patient.Email, 255)),
		validation.Field("Phone", validation.IsInvalidLength(patient.Phone, 15)),
		validation.Field("PostCode", validation.IsInvalidLength(patient.PostCode, 8)),
		validation.Field("NotificationPreference", validation.Rule{
			Violated: !patient.NotificationPreference.IsValid(),
			Message:  "Value is not recognized",
		}),
	}
	return append(checks, auditChecks(&patient.Audit)...)
}

// Add validates and stores a new patient
func (s *PatientService) Add(ctx context.Context, patient *models.Patient) (*models.Patient, error) {
	return s.pipeline.add(ctx, patient)
}

// Modify validates and updates an existing patient
func (s *PatientService) Modify(ctx context.Context, patient *models.Patient) (*models.Patient, error) {
	return s.pipeline.modify(ctx, patient)
}

// RemoveByID deletes a patient and returns the removed record
func (s *PatientService) RemoveByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.pipeline.removeByID(ctx, id)
}

// RetrieveByID returns a single patient
func (s *PatientService) RetrieveByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.pipeline.retrieveByID(ctx, id)
}

// RetrieveAll returns every stored patient
func (s *PatientService) RetrieveAll(ctx context.Context) ([]*models.Patient, error) {
	return s.pipeline.retrieveAll(ctx)
}
