package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// DecisionService handles validated storage of decisions
type DecisionService struct {
	pipeline *foundation[models.Decision, *models.Decision]
}

// NewDecisionService creates a new DecisionService
func NewDecisionService(
	store Store[*models.Decision],
	securityAudit SecurityAuditBroker,
	clock utils.Clock,
	recorder serviceerror.Recorder,
	logger *logrus.Logger,
) *DecisionService {
	return &DecisionService{
		pipeline: newFoundation[models.Decision](
			serviceerror.ContextDecision, "Decision", store, securityAudit, clock, recorder, decisionChecks, logger),
	}
}

func decisionChecks(decision *models.Decision) []validation.Check {
	checks := []validation.Check{
		validation.Field("Id", validation.IsInvalidID(decision.ID)),
		validation.Field("PatientId", validation.IsInvalidID(decision.PatientID)),
		validation.Field("DecisionTypeId", validation.IsInvalidID(decision.DecisionTypeID)),
		validation.Field("DecisionChoice", validation.IsInvalid(decision.DecisionChoice)),
		validation.Field("DecisionChoice", validation.IsInvalidLength(decision.DecisionChoice, 255)),
		validation.Field("ResponsiblePersonGivenName", validation.IsInvalidLength(decision.ResponsiblePersonGivenName, 255)),
		validation.Field("ResponsiblePersonSurname", validation.IsInvalidLength(decision.ResponsiblePersonSurname, 255)),
		validation.Field("ResponsiblePersonRelationship",
			validation.IsInvalidLength(decision.ResponsiblePersonRelationship, 255)),
	}
	return append(checks, auditChecks(&decision.Audit)...)
}

// Add validates and stores a new decision
func (s *DecisionService) Add(ctx context.Context, decision *models.Decision) (*models.Decision, error) {
	return s.pipeline.add(ctx, decision)
}

// Modify validates and updates an existing decision
func (s *DecisionService) Modify(ctx context.Context, decision *models.Decision) (*models.Decision, error) {
	return s.pipeline.modify(ctx, decision)
}

// RemoveByID deletes a decision and returns the removed record
func (s *DecisionService) RemoveByID(ctx context.Context, id string) (*models.Decision, error) {
	return s.pipeline.removeByID(ctx, id)
}

// RetrieveByID returns a single decision with its type joined
func (s *DecisionService) RetrieveByID(ctx context.Context, id string) (*models.Decision, error) {
	return s.pipeline.retrieveByID(ctx, id)
}

// RetrieveAll returns every stored decision with its type joined
func (s *DecisionService) RetrieveAll(ctx context.Context) ([]*models.Decision, error) {
	return s.pipeline.retrieveAll(ctx)
}
