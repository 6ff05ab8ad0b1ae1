package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// ConsumerService handles validated storage of downstream consumers
type ConsumerService struct {
	pipeline *foundation[models.Consumer, *models.Consumer]
}

// NewConsumerService creates a new ConsumerService
func NewConsumerService(
	store Store[*models.Consumer],
	securityAudit SecurityAuditBroker,
	clock utils.Clock,
	recorder serviceerror.Recorder,
	logger *logrus.Logger,
) *ConsumerService {
	return &ConsumerService{
		pipeline: newFoundation[models.Consumer](
			serviceerror.ContextConsumer, "Consumer", store, securityAudit, clock, recorder, consumerChecks, logger),
	}
}

func consumerChecks(consumer *models.Consumer) []validation.Check {
	checks := []validation.Check{
		validation.Field("Id", validation.IsInvalidID(consumer.ID)),
		validation.Field("Name", validation.IsInvalid(consumer.Name)),
		validation.Field("Name", validation.IsInvalidLength(consumer.Name, 255)),
		validation.Field("EntraId", validation.IsInvalidLength(consumer.EntraID, 255)),
		validation.Field("ContactEmail", validation.IsInvalidLength(consumer.ContactEmail, 320)),
	}
	return append(checks, auditChecks(&consumer.Audit)...)
}

// Add validates and stores a new consumer
func (s *ConsumerService) Add(ctx context.Context, consumer *models.Consumer) (*models.Consumer, error) {
	return s.pipeline.add(ctx, consumer)
}

// Modify validates and updates an existing consumer
func (s *ConsumerService) Modify(ctx context.Context, consumer *models.Consumer) (*models.Consumer, error) {
	return s.pipeline.modify(ctx, consumer)
}

// RemoveByID deletes a consumer and returns the removed record
func (s *ConsumerService) RemoveByID(ctx context.Context, id string) (*models.Consumer, error) {
	return s.pipeline.removeByID(ctx, id)
}

// RetrieveByID returns a single consumer
func (s *ConsumerService) RetrieveByID(ctx context.Context, id string) (*models.Consumer, error) {
	return s.pipeline.retrieveByID(ctx, id)
}

// RetrieveAll returns every registered consumer
func (s *ConsumerService) RetrieveAll(ctx context.Context) ([]*models.Consumer, error) {
	return s.pipeline.retrieveAll(ctx)
}
