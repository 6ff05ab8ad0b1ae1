// Package audit writes structured audit events to storage and the application log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// LogLevelInformation is the level recorded for informational events
const LogLevelInformation = "Information"

// Store persists audit records
type Store interface {
	Insert(ctx context.Context, record *models.AuditRecord) error
}

// UserIDProvider resolves who is acting
type UserIDProvider interface {
	GetCurrentUserID(ctx context.Context) string
}

// Broker records audit events
type Broker struct {
	store  Store
	users  UserIDProvider
	ids    utils.IDGenerator
	clock  utils.Clock
	logger *logrus.Logger
}

// NewBroker creates a Broker
func NewBroker(store Store, users UserIDProvider, ids utils.IDGenerator, clock utils.Clock, logger *logrus.Logger) *Broker {
	return &Broker{
		store:  store,
		users:  users,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// LogInformation records an informational event. data, when not nil, is stored as JSON.
func (b *Broker) LogInformation(
	ctx context.Context, category, action, message string, data interface{}, correlationID string) error {
	record := &models.AuditRecord{
		ID:            b.ids.NewID(),
		CorrelationID: correlationID,
		AuditType:     category,
		Title:         action,
		Message:       message,
		LogLevel:      LogLevelInformation,
		CreatedBy:     b.users.GetCurrentUserID(ctx),
		CreatedDate:   b.clock.Now(),
	}

	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode audit data: %w", err)
		}
		text := string(encoded)
		record.Data = &text
	}

	b.logger.WithFields(logrus.Fields{
		"audit_type":     category,
		"title":          action,
		"correlation_id": correlationID,
		"created_by":     record.CreatedBy,
	}).Info(message)

	if err := b.store.Insert(ctx, record); err != nil {
		b.logger.WithError(err).WithField("correlation_id", correlationID).Error("Failed to store audit record")
		return fmt.Errorf("failed to store audit record: %w", err)
	}

	return nil
}
