package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

const tracerName = "decision-orchestration"

// Audit event names written while recording an NHS login decision
const (
	auditCategoryDecision    = "Decision"
	auditActionVerifying     = "Verifying Decision"
	auditActionSubmitted     = "Decision Submitted"
	recordedPathVerification = "verification"
	recordedPathNhsLogin     = "nhs_login"
)

// DecisionOrchestrationService composes the foundation services into the patient
// verification and consumer adoption workflows
type DecisionOrchestrationService struct {
	patients      PatientOperations
	decisions     DecisionOperations
	consumers     ConsumerOperations
	adoptions     ConsumerAdoptionOperations
	notifications NotificationOperations
	security      SecurityBroker
	audit         AuditBroker
	ids           utils.IDGenerator
	clock         utils.Clock
	config        config.DecisionConfig
	translator    *serviceerror.Translator
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	logger        *logrus.Logger
}

// NewDecisionOrchestrationService creates a new DecisionOrchestrationService
func NewDecisionOrchestrationService(
	patients PatientOperations,
	decisions DecisionOperations,
	consumers ConsumerOperations,
	adoptions ConsumerAdoptionOperations,
	notifications NotificationOperations,
	security SecurityBroker,
	audit AuditBroker,
	ids utils.IDGenerator,
	clock utils.Clock,
	cfg config.DecisionConfig,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *DecisionOrchestrationService {
	return &DecisionOrchestrationService{
		patients:      patients,
		decisions:     decisions,
		consumers:     consumers,
		adoptions:     adoptions,
		notifications: notifications,
		security:      security,
		audit:         audit,
		ids:           ids,
		clock:         clock,
		config:        cfg,
		translator: serviceerror.NewTranslator(
			serviceerror.ContextDecisionOrchestration, logger, m, orchestrationRules()...),
		metrics: m,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}
}

// orchestrationRules rewrap foundation failures under the orchestration context
func orchestrationRules() []serviceerror.Rule {
	return []serviceerror.Rule{
		{
			Match: serviceerror.MatchKind(serviceerror.Validation, serviceerror.DependencyValidation),
			Kind:  serviceerror.DependencyValidation,
			Inner: serviceerror.UnwrapService,
		},
		{
			Match: serviceerror.MatchKind(serviceerror.Dependency, serviceerror.Service),
			Kind:  serviceerror.Dependency,
			Inner: serviceerror.UnwrapService,
		},
		{
			Match: serviceerror.MatchAs[*validation.Error](),
			Kind:  serviceerror.Validation,
		},
		{
			Match: serviceerror.MatchReason(
				serviceerror.ReasonNotFound,
				serviceerror.ReasonExceededRetries,
				serviceerror.ReasonRenewedCode,
				serviceerror.ReasonIncorrectCode,
			),
			Kind: serviceerror.Validation,
		},
		{
			Match: serviceerror.MatchReason(serviceerror.ReasonUnauthorized, serviceerror.ReasonInvalidCaptcha),
			Kind:  serviceerror.DependencyValidation,
		},
	}
}

// traced runs op inside a span and translates its failure
func traced[T any](
	ctx context.Context,
	s *DecisionOrchestrationService,
	operation string,
	op func(ctx context.Context, span trace.Span) (T, error),
) (T, error) {
	ctx, span := s.tracer.Start(ctx, operation)
	defer span.End()

	value, err := serviceerror.Run(s.translator, func() (T, error) {
		return op(ctx, span)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return value, err
}

// CheckIfIsAuthenticatedUserWithRequiredRole returns true for an authenticated caller holding
// a workflow role and false for an anonymous caller with a valid captcha
func (s *DecisionOrchestrationService) CheckIfIsAuthenticatedUserWithRequiredRole(ctx context.Context) (bool, error) {
	return traced(ctx, s, "CheckIfIsAuthenticatedUserWithRequiredRole",
		func(ctx context.Context, span trace.Span) (bool, error) {
			if s.security.IsCurrentUserAuthenticated(ctx) {
				if role, ok := s.firstHeldRole(ctx, s.config.DecisionWorkflowRoles); ok {
					span.SetAttributes(attribute.String("role", role))
					return true, nil
				}
				return false, serviceerror.NewReasonError(serviceerror.ReasonUnauthorized,
					"The current user is not authorized to perform this operation.", nil)
			}

			valid, err := s.security.ValidateCaptcha(ctx)
			if err != nil {
				return false, fmt.Errorf("failed to validate captcha: %w", err)
			}
			if !valid {
				return false, serviceerror.NewReasonError(serviceerror.ReasonInvalidCaptcha,
					"The captcha token is invalid, please try again.", nil)
			}
			return false, nil
		})
}

// RetrieveAllPendingAdoptionDecisionsForConsumer lists decisions of decisionType created after
// changesSince for the consumer matching the current user. A zero changesSince and an empty
// decisionType disable their filters.
func (s *DecisionOrchestrationService) RetrieveAllPendingAdoptionDecisionsForConsumer(
	ctx context.Context, changesSince time.Time, decisionType string) ([]*models.Decision, error) {
	return traced(ctx, s, "RetrieveAllPendingAdoptionDecisionsForConsumer",
		func(ctx context.Context, span trace.Span) ([]*models.Decision, error) {
			consumer, err := s.currentConsumer(ctx)
			if err != nil {
				return nil, err
			}
			span.SetAttributes(attribute.String("consumer.id", consumer.ID))

			decisions, err := s.decisions.RetrieveAll(ctx)
			if err != nil {
				return nil, err
			}

			pending := make([]*models.Decision, 0, len(decisions))
			for _, decision := range decisions {
				if decisionType != "" && decision.DecisionTypeName() != decisionType {
					continue
				}
				if !changesSince.IsZero() && !decision.CreatedDate.After(changesSince) {
					continue
				}
				pending = append(pending, decision)
			}

			s.logger.WithFields(logrus.Fields{
				"consumer_id":   consumer.ID,
				"decision_type": decisionType,
				"count":         len(pending),
			}).Debug("Retrieved pending adoption decisions")
			return pending, nil
		})
}

// AdoptDecisionsForConsumer records that the current consumer has taken up each decision and
// sends the patient a usage notice. Decisions the consumer already adopted are skipped.
func (s *DecisionOrchestrationService) AdoptDecisionsForConsumer(
	ctx context.Context, decisionIDs []string) ([]*models.ConsumerAdoption, error) {
	return traced(ctx, s, "AdoptDecisionsForConsumer",
		func(ctx context.Context, span trace.Span) ([]*models.ConsumerAdoption, error) {
			checks := []validation.Check{
				validation.Field("DecisionIds", validation.IsNull(len(decisionIDs) == 0, "DecisionIds")),
			}
			for i, id := range decisionIDs {
				checks = append(checks, validation.Field(fmt.Sprintf("DecisionIds[%d]", i), validation.IsInvalidID(id)))
			}
			if err := validation.Validate("adoption request", checks...); err != nil {
				return nil, err
			}

			consumer, err := s.currentConsumer(ctx)
			if err != nil {
				return nil, err
			}
			span.SetAttributes(attribute.String("consumer.id", consumer.ID))

			existing, err := s.adoptions.RetrieveAll(ctx)
			if err != nil {
				return nil, err
			}
			adopted := make(map[string]bool)
			for _, adoption := range existing {
				if adoption.ConsumerID == consumer.ID {
					adopted[adoption.DecisionID] = true
				}
			}

			now := s.clock.Now()
			recorded := make([]*models.ConsumerAdoption, 0, len(decisionIDs))
			for _, decisionID := range decisionIDs {
				if adopted[decisionID] {
					continue
				}
				adoption, err := s.adoptions.Add(ctx, &models.ConsumerAdoption{
					ID:           s.ids.NewID(),
					ConsumerID:   consumer.ID,
					DecisionID:   decisionID,
					AdoptionDate: now,
				})
				if err != nil {
					return nil, err
				}
				adopted[decisionID] = true
				recorded = append(recorded, adoption)

				s.notifySubscriberUsage(ctx, consumer, adoption)
			}

			return recorded, nil
		})
}

// VerifyAndRecordDecision checks the submitted validation code against the patient's current
// code and records the decision when it matches
func (s *DecisionOrchestrationService) VerifyAndRecordDecision(ctx context.Context, decision *models.Decision) error {
	_, err := traced(ctx, s, "VerifyAndRecordDecision",
		func(ctx context.Context, span trace.Span) (struct{}, error) {
			if err := validateSubmission(decision, true); err != nil {
				return struct{}{}, err
			}

			patient, err := s.findPatientByNhsNumber(ctx, decision.Patient.NhsNumber)
			if err != nil {
				return struct{}{}, err
			}
			if patient == nil {
				return struct{}{}, s.verificationFailure(serviceerror.NewReasonError(serviceerror.ReasonNotFound,
					"Couldn't find a patient with the submitted NHS number.", nil))
			}
			span.SetAttributes(attribute.String("patient.id", patient.ID))

			if patient.RetryCount >= s.config.MaxRetryCount {
				return struct{}{}, s.verificationFailure(serviceerror.NewReasonError(serviceerror.ReasonExceededRetries,
					"The maximum number of retries has been exceeded, please contact support.", nil))
			}

			now := s.clock.Now()
			if s.isCodeExpired(patient, now) {
				if err := s.renewValidationCode(ctx, patient, now); err != nil {
					return struct{}{}, err
				}
				return struct{}{}, s.verificationFailure(serviceerror.NewReasonError(serviceerror.ReasonRenewedCode,
					"The validation code has expired, a new code has been sent.", nil))
			}

			if decision.Patient.ValidationCode != patient.ValidationCode {
				patient.RetryCount++
				if _, err := s.patients.Modify(ctx, patient); err != nil {
					return struct{}{}, err
				}
				return struct{}{}, s.verificationFailure(serviceerror.NewReasonError(serviceerror.ReasonIncorrectCode,
					"The validation code is incorrect, please try again.", nil))
			}

			patient.ValidationCodeMatchedOn = &now
			patient, err = s.patients.Modify(ctx, patient)
			if err != nil {
				return struct{}{}, err
			}

			added, err := s.addDecision(ctx, decision, patient)
			if err != nil {
				return struct{}{}, err
			}

			s.metrics.IncDecisionRecorded(recordedPathVerification)

			// Confirmation is best effort once the decision is stored
			err = s.notifications.SendSubmissionSuccessNotification(ctx,
				&models.NotificationInfo{Patient: patient, Decision: added})
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"decision_id": added.ID,
					"patient_id":  patient.ID,
				}).WithError(err).Warn("Decision recorded but submission confirmation was not sent")
			}
			return struct{}{}, nil
		})
	return err
}

// VerifyAndRecordDecisionNhsLogin records a decision for a caller whose identity was
// established by NHS login. The patient is created when not yet known.
func (s *DecisionOrchestrationService) VerifyAndRecordDecisionNhsLogin(ctx context.Context, decision *models.Decision) error {
	_, err := traced(ctx, s, "VerifyAndRecordDecisionNhsLogin",
		func(ctx context.Context, span trace.Span) (struct{}, error) {
			correlationID := s.ids.NewID()
			ipAddress := s.security.GetIPAddress(ctx)
			span.SetAttributes(attribute.String("correlation.id", correlationID))

			err := s.audit.LogInformation(ctx, auditCategoryDecision, auditActionVerifying,
				fmt.Sprintf("Verifying decision submitted from %s.", ipAddress),
				submissionAuditData(decision, ipAddress), correlationID)
			if err != nil {
				return struct{}{}, err
			}

			if err := validateSubmission(decision, false); err != nil {
				return struct{}{}, err
			}

			if err := s.authorizeNhsLoginPatient(ctx, decision.Patient.NhsNumber); err != nil {
				return struct{}{}, err
			}

			submitted := decision.Patient
			patient, err := s.findPatientByNhsNumber(ctx, submitted.NhsNumber)
			if err != nil {
				return struct{}{}, err
			}

			now := s.clock.Now()
			if patient == nil {
				patient, err = s.addPatientFromSubmission(ctx, submitted, now)
			} else {
				overlayPatientDetails(patient, submitted)
				patient.ValidationCodeMatchedOn = &now
				patient, err = s.patients.Modify(ctx, patient)
			}
			if err != nil {
				return struct{}{}, err
			}

			added, err := s.addDecision(ctx, decision, patient)
			if err != nil {
				return struct{}{}, err
			}

			err = s.audit.LogInformation(ctx, auditCategoryDecision, auditActionSubmitted,
				fmt.Sprintf("Decision %s submitted for patient %s.", added.ID, patient.ID),
				submissionAuditData(added, ipAddress), correlationID)
			if err != nil {
				return struct{}{}, err
			}

			s.metrics.IncDecisionRecorded(recordedPathNhsLogin)
			return struct{}{}, nil
		})
	return err
}

func validateSubmission(decision *models.Decision, requireCode bool) error {
	checks := []validation.Check{
		validation.Field("Decision", validation.IsNull(decision == nil, "Decision")),
	}
	if decision != nil {
		checks = append(checks,
			validation.Field("Decision.Patient", validation.IsNull(decision.Patient == nil, "Patient")))
		if decision.Patient != nil {
			checks = append(checks,
				validation.Field("Patient.NhsNumber", validation.IsInvalidNhsNumber(decision.Patient.NhsNumber)))
			if requireCode {
				checks = append(checks, validation.Field("Patient.ValidationCode",
					validation.IsNotExactLength(decision.Patient.ValidationCode, utils.ValidationCodeLength)))
			}
		}
	}
	return validation.Validate("decision", checks...)
}

func (s *DecisionOrchestrationService) findPatientByNhsNumber(
	ctx context.Context, nhsNumber string) (*models.Patient, error) {
	patients, err := s.patients.RetrieveAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, patient := range patients {
		if patient.NhsNumber == nhsNumber {
			return patient, nil
		}
	}
	return nil, nil
}

func (s *DecisionOrchestrationService) currentConsumer(ctx context.Context) (*models.Consumer, error) {
	user := s.security.GetCurrentUser(ctx)

	consumers, err := s.consumers.RetrieveAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, consumer := range consumers {
		if consumer.EntraID != "" && consumer.EntraID == user.ID {
			return consumer, nil
		}
	}

	return nil, serviceerror.NewReasonError(serviceerror.ReasonUnauthorized,
		"The current user is not a registered consumer.", nil)
}

// isCodeExpired reports whether the patient's code has passed its expiry, or was matched
// longer ago than the reuse window allows
func (s *DecisionOrchestrationService) isCodeExpired(patient *models.Patient, now time.Time) bool {
	if now.After(patient.ValidationCodeExpiresOn) {
		return true
	}
	window := s.config.MatchedCodeWindow()
	if patient.ValidationCodeMatchedOn != nil && window > 0 {
		return now.After(patient.ValidationCodeMatchedOn.Add(window))
	}
	return false
}

func (s *DecisionOrchestrationService) renewValidationCode(
	ctx context.Context, patient *models.Patient, now time.Time) error {
	code, err := s.ids.NewValidationCode()
	if err != nil {
		return err
	}

	patient.ValidationCode = code
	patient.ValidationCodeExpiresOn = now.Add(s.config.CodeExpiry())
	patient.ValidationCodeMatchedOn = nil
	patient.RetryCount = 0

	modified, err := s.patients.Modify(ctx, patient)
	if err != nil {
		return err
	}

	s.logger.WithField("patient_id", modified.ID).Info("Validation code renewed")
	return s.notifications.SendCodeNotification(ctx, &models.NotificationInfo{Patient: modified})
}

func (s *DecisionOrchestrationService) addPatientFromSubmission(
	ctx context.Context, submitted *models.Patient, now time.Time) (*models.Patient, error) {
	code, err := s.ids.NewValidationCode()
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{}
	overlayPatientDetails(patient, submitted)
	patient.ID = s.ids.NewID()
	patient.NhsNumber = submitted.NhsNumber
	patient.ValidationCode = code
	patient.ValidationCodeExpiresOn = now.Add(s.config.CodeExpiry())
	patient.ValidationCodeMatchedOn = &now
	if !patient.NotificationPreference.IsValid() {
		patient.NotificationPreference = models.NotificationPreferenceEmail
	}

	return s.patients.Add(ctx, patient)
}

func (s *DecisionOrchestrationService) addDecision(
	ctx context.Context, decision *models.Decision, patient *models.Patient) (*models.Decision, error) {
	if decision.ID == "" {
		decision.ID = s.ids.NewID()
	}
	decision.PatientID = patient.ID
	decision.Patient = patient

	added, err := s.decisions.Add(ctx, decision)
	if err != nil {
		return nil, err
	}

	// reload for the joined decision type name
	stored, err := s.decisions.RetrieveByID(ctx, added.ID)
	if err != nil {
		return nil, err
	}
	stored.Patient = patient
	return stored, nil
}

// authorizeNhsLoginPatient accepts only a caller whose NHS login identity is the submitted patient
func (s *DecisionOrchestrationService) authorizeNhsLoginPatient(ctx context.Context, nhsNumber string) error {
	if !s.security.IsCurrentUserAuthenticated(ctx) {
		return serviceerror.NewReasonError(serviceerror.ReasonUnauthorized,
			"NHS login is required to submit this decision.", nil)
	}

	if len(s.config.NhsLoginRoles) > 0 {
		if _, ok := s.firstHeldRole(ctx, s.config.NhsLoginRoles); !ok {
			return serviceerror.NewReasonError(serviceerror.ReasonUnauthorized,
				"The current user is not authorized to perform this operation.", nil)
		}
	}

	user := s.security.GetCurrentUser(ctx)
	if user == nil || user.NhsNumber == "" || user.NhsNumber != nhsNumber {
		return s.verificationFailure(serviceerror.NewReasonError(serviceerror.ReasonUnauthorized,
			"The submitted NHS number does not belong to the signed-in patient.", nil))
	}
	return nil
}

func (s *DecisionOrchestrationService) firstHeldRole(ctx context.Context, roles []string) (string, bool) {
	for _, role := range roles {
		if s.security.IsInRole(ctx, role) {
			return role, true
		}
	}
	return "", false
}

// notifySubscriberUsage tells the patient behind an adopted decision that consumer has taken it up.
// The adoption is already stored, so failures are logged rather than returned.
func (s *DecisionOrchestrationService) notifySubscriberUsage(
	ctx context.Context, consumer *models.Consumer, adoption *models.ConsumerAdoption) {
	logger := s.logger.WithFields(logrus.Fields{
		"consumer_id": consumer.ID,
		"decision_id": adoption.DecisionID,
	})

	decision, err := s.decisions.RetrieveByID(ctx, adoption.DecisionID)
	if err != nil {
		logger.WithError(err).Warn("Adopted decision could not be loaded for the usage notice")
		return
	}
	patient, err := s.patients.RetrieveByID(ctx, decision.PatientID)
	if err != nil {
		logger.WithError(err).Warn("Patient could not be loaded for the usage notice")
		return
	}

	err = s.notifications.SendSubscriberUsageNotification(ctx,
		&models.NotificationInfo{Patient: patient, Decision: decision, Consumer: consumer})
	if err != nil {
		logger.WithError(err).Warn("Subscriber usage notice was not sent")
	}
}

func (s *DecisionOrchestrationService) verificationFailure(err *serviceerror.ReasonError) error {
	s.metrics.IncVerificationFailure(string(err.Reason))
	return err
}

// overlayPatientDetails copies the non-blank contact details of submitted onto patient
func overlayPatientDetails(patient, submitted *models.Patient) {
	overlay := func(target *string, value string) {
		if !utils.IsBlank(value) {
			*target = value
		}
	}
	overlay(&patient.Title, submitted.Title)
	overlay(&patient.GivenName, submitted.GivenName)
	overlay(&patient.Surname, submitted.Surname)
	overlay(&patient.Gender, submitted.Gender)
	overlay(&patient.Email, submitted.Email)
	overlay(&patient.Phone, submitted.Phone)
	overlay(&patient.Address, submitted.Address)
	overlay(&patient.PostCode, submitted.PostCode)
	if !submitted.DateOfBirth.IsZero() {
		patient.DateOfBirth = submitted.DateOfBirth
	}
	if submitted.NotificationPreference.IsValid() {
		patient.NotificationPreference = submitted.NotificationPreference
	}
}

func submissionAuditData(decision *models.Decision, ipAddress string) map[string]interface{} {
	data := map[string]interface{}{"ipAddress": ipAddress}
	if decision == nil {
		return data
	}
	data["decisionId"] = decision.ID
	data["decisionTypeId"] = decision.DecisionTypeID
	data["decisionChoice"] = decision.DecisionChoice
	if decision.Patient != nil {
		data["nhsNumber"] = decision.Patient.NhsNumber
	}
	return data
}
