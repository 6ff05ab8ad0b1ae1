package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// ConsumerAdoptionService tracks which consumer has taken up which decision
type ConsumerAdoptionService struct {
	pipeline *foundation[models.ConsumerAdoption, *models.ConsumerAdoption]
}

// NewConsumerAdoptionService creates a new ConsumerAdoptionService
func NewConsumerAdoptionService(
	store Store[*models.ConsumerAdoption],
	securityAudit SecurityAuditBroker,
	clock utils.Clock,
	recorder serviceerror.Recorder,
	logger *logrus.Logger,
) *ConsumerAdoptionService {
	return &ConsumerAdoptionService{
		pipeline: newFoundation[models.ConsumerAdoption](
			serviceerror.ContextConsumerAdoption, "ConsumerAdoption",
			store, securityAudit, clock, recorder, consumerAdoptionChecks, logger),
	}
}

func consumerAdoptionChecks(adoption *models.ConsumerAdoption) []validation.Check {
	checks := []validation.Check{
		validation.Field("Id", validation.IsInvalidID(adoption.ID)),
		validation.Field("ConsumerId", validation.IsInvalidID(adoption.ConsumerID)),
		validation.Field("DecisionId", validation.IsInvalidID(adoption.DecisionID)),
		validation.Field("AdoptionDate", validation.IsInvalidDate(adoption.AdoptionDate)),
	}
	return append(checks, auditChecks(&adoption.Audit)...)
}

// Add validates and stores a new adoption
func (s *ConsumerAdoptionService) Add(
	ctx context.Context, adoption *models.ConsumerAdoption) (*models.ConsumerAdoption, error) {
	return s.pipeline.add(ctx, adoption)
}

// Modify validates and updates an existing adoption
func (s *ConsumerAdoptionService) Modify(
	ctx context.Context, adoption *models.ConsumerAdoption) (*models.ConsumerAdoption, error) {
	return s.pipeline.modify(ctx, adoption)
}

// RemoveByID deletes an adoption and returns the removed record
func (s *ConsumerAdoptionService) RemoveByID(ctx context.Context, id string) (*models.ConsumerAdoption, error) {
	return s.pipeline.removeByID(ctx, id)
}

// RetrieveByID returns a single adoption
func (s *ConsumerAdoptionService) RetrieveByID(ctx context.Context, id string) (*models.ConsumerAdoption, error) {
	return s.pipeline.retrieveByID(ctx, id)
}

// RetrieveAll returns every adoption
func (s *ConsumerAdoptionService) RetrieveAll(ctx context.Context) ([]*models.ConsumerAdoption, error) {
	return s.pipeline.retrieveAll(ctx)
}
