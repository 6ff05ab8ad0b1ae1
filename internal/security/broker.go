package security

import (
	"context"
	"time"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
)

// CaptchaVerifier checks a captcha token
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Broker answers identity questions about the current request from facts the
// HTTP middleware placed on the context
type Broker struct {
	captcha CaptchaVerifier
}

// NewBroker creates a Broker
func NewBroker(captcha CaptchaVerifier) *Broker {
	return &Broker{captcha: captcha}
}

// GetCurrentUser returns the authenticated user, or an anonymous user
func (b *Broker) GetCurrentUser(ctx context.Context) *User {
	if user, ok := UserFromContext(ctx); ok {
		return user
	}
	return &User{ID: AnonymousUserID}
}

// IsCurrentUserAuthenticated reports whether the request carried a valid bearer token
func (b *Broker) IsCurrentUserAuthenticated(ctx context.Context) bool {
	_, ok := UserFromContext(ctx)
	return ok
}

// IsInRole reports whether the authenticated user holds role
func (b *Broker) IsInRole(ctx context.Context, role string) bool {
	user, ok := UserFromContext(ctx)
	return ok && user.HasRole(role)
}

// ValidateCaptcha verifies the captcha token submitted with the request
func (b *Broker) ValidateCaptcha(ctx context.Context) (bool, error) {
	return b.captcha.Verify(ctx, CaptchaTokenFromContext(ctx), IPAddressFromContext(ctx))
}

// GetIPAddress returns the caller's address
func (b *Broker) GetIPAddress(ctx context.Context) string {
	return IPAddressFromContext(ctx)
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// AuditValues stamps audit fields on entities from the current user and time
type AuditValues struct {
	broker *Broker
	clock  Clock
}

// NewAuditValues creates an AuditValues
func NewAuditValues(broker *Broker, clock Clock) *AuditValues {
	return &AuditValues{broker: broker, clock: clock}
}

// GetCurrentUserID returns the id written into audit fields
func (a *AuditValues) GetCurrentUserID(ctx context.Context) string {
	return a.broker.GetCurrentUser(ctx).ID
}

// ApplyAddAuditValues sets every audit field for a new entity
func (a *AuditValues) ApplyAddAuditValues(ctx context.Context, audit *models.Audit) {
	userID := a.GetCurrentUserID(ctx)
	now := a.clock.Now()
	audit.CreatedBy = userID
	audit.CreatedDate = now
	audit.UpdatedBy = userID
	audit.UpdatedDate = now
}

// ApplyModifyAuditValues sets the update stamps for a modified entity
func (a *AuditValues) ApplyModifyAuditValues(ctx context.Context, audit *models.Audit) {
	audit.UpdatedBy = a.GetCurrentUserID(ctx)
	audit.UpdatedDate = a.clock.Now()
}

// EnsureAddAuditValuesRemainUnchangedOnModify fails when a modification altered the
// creation stamps held in storage
func (a *AuditValues) EnsureAddAuditValuesRemainUnchangedOnModify(
	ctx context.Context, audit *models.Audit, stored *models.Audit) error {
	return validation.Validate("entity",
		validation.Field("CreatedBy", validation.IsNotSame(audit.CreatedBy, stored.CreatedBy, "stored CreatedBy")),
		validation.Field("CreatedDate",
			validation.IsNotSameDate(audit.CreatedDate, stored.CreatedDate, "stored CreatedDate")),
	)
}
