package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/notification"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// Notification purposes, matching the configured template names
const (
	PurposeCode              = "Code"
	PurposeSubmissionSuccess = "SubmissionSuccess"
	PurposeSubscriberUsage   = "SubscriberUsage"
)

const dateOfBirthLayout = "2006-01-02"

// NotificationService sends patient notifications over the channel each patient prefers
type NotificationService struct {
	client     NotificationClient
	templates  config.NotificationTemplates
	translator *serviceerror.Translator
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	client NotificationClient,
	templates config.NotificationTemplates,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		client:     client,
		templates:  templates,
		translator: serviceerror.NewTranslator(serviceerror.ContextNotification, logger, m, notificationRules()...),
		metrics:    m,
		logger:     logger,
	}
}

func notificationRules() []serviceerror.Rule {
	isProviderError := func(validationFault bool) func(error) bool {
		return func(err error) bool {
			var pe *notification.ProviderError
			return errors.As(err, &pe) && pe.IsValidation() == validationFault
		}
	}

	return []serviceerror.Rule{
		{
			Match: serviceerror.MatchAs[*validation.Error](),
			Kind:  serviceerror.Validation,
		},
		{
			Match: serviceerror.MatchReason(serviceerror.ReasonNull),
			Kind:  serviceerror.Validation,
		},
		{
			Match: isProviderError(true),
			Kind:  serviceerror.DependencyValidation,
			Inner: serviceerror.WrapReason(serviceerror.ReasonInvalidProviderInput,
				"Notification provider rejected the request, please fix the errors and try again."),
		},
		{
			Match: isProviderError(false),
			Kind:  serviceerror.Dependency,
			Inner: serviceerror.WrapReason(serviceerror.ReasonFailedProvider,
				"Notification provider error occurred, contact support."),
		},
	}
}

// SendCodeNotification sends the patient their validation code
func (s *NotificationService) SendCodeNotification(ctx context.Context, info *models.NotificationInfo) error {
	return s.send(ctx, info, PurposeCode)
}

// SendSubmissionSuccessNotification confirms a recorded decision to the patient
func (s *NotificationService) SendSubmissionSuccessNotification(ctx context.Context, info *models.NotificationInfo) error {
	return s.send(ctx, info, PurposeSubmissionSuccess)
}

// SendSubscriberUsageNotification tells the patient a consumer has taken up their decision
func (s *NotificationService) SendSubscriberUsageNotification(ctx context.Context, info *models.NotificationInfo) error {
	return s.send(ctx, info, PurposeSubscriberUsage)
}

func (s *NotificationService) send(ctx context.Context, info *models.NotificationInfo, purpose string) error {
	return serviceerror.RunErr(s.translator, func() error {
		if info == nil {
			return serviceerror.Null("NotificationInfo")
		}

		channel := ""
		if info.Patient != nil {
			channel = string(info.Patient.NotificationPreference)
		}
		templateID := s.templates.TemplateID(channel, purpose)

		if err := validateNotificationInfo(info, purpose, templateID); err != nil {
			return err
		}

		personalisation := buildPersonalisation(info)
		reference := info.Patient.ID
		if info.Decision != nil && info.Decision.ID != "" {
			reference = info.Decision.ID
		}

		var (
			notificationID string
			err            error
		)
		switch info.Patient.NotificationPreference {
		case models.NotificationPreferenceEmail:
			notificationID, err = s.client.SendEmail(ctx, templateID, info.Patient.Email, personalisation, reference)
		case models.NotificationPreferenceSms:
			notificationID, err = s.client.SendSMS(ctx, templateID, info.Patient.Phone, personalisation, reference)
		case models.NotificationPreferenceLetter:
			personalisation["address_line_1"] = info.Patient.GivenName + " " + info.Patient.Surname
			personalisation["address_line_2"] = info.Patient.Address
			personalisation["address_line_3"] = info.Patient.PostCode
			notificationID, err = s.client.SendLetter(ctx, templateID, personalisation, reference)
		}
		if err != nil {
			return err
		}

		s.metrics.IncNotificationSent(channel, purpose)
		s.logger.WithFields(logrus.Fields{
			"notification_id": notificationID,
			"channel":         channel,
			"purpose":         purpose,
			"patient_id":      info.Patient.ID,
		}).Info("Notification sent")
		return nil
	})
}

func validateNotificationInfo(info *models.NotificationInfo, purpose, templateID string) error {
	patient := info.Patient
	checks := []validation.Check{
		validation.Field("Patient", validation.IsNull(patient == nil, "Patient")),
	}
	if purpose != PurposeCode {
		checks = append(checks, validation.Field("Decision", validation.IsNull(info.Decision == nil, "Decision")))
	}

	if patient != nil {
		checks = append(checks, validation.Field("Patient.NotificationPreference", validation.Rule{
			Violated: !patient.NotificationPreference.IsValid(),
			Message:  "Value is not recognized",
		}))

		switch patient.NotificationPreference {
		case models.NotificationPreferenceEmail:
			checks = append(checks, validation.Field("Patient.Email", validation.IsInvalid(patient.Email)))
		case models.NotificationPreferenceSms:
			checks = append(checks, validation.Field("Patient.Phone", validation.IsInvalid(patient.Phone)))
		case models.NotificationPreferenceLetter:
			checks = append(checks,
				validation.Field("Patient.Address", validation.IsInvalid(patient.Address)),
				validation.Field("Patient.PostCode", validation.IsInvalid(patient.PostCode)),
			)
		}

		if purpose == PurposeCode {
			checks = append(checks,
				validation.Field("Patient.ValidationCode", validation.IsInvalid(patient.ValidationCode)))
		}

		if patient.NotificationPreference.IsValid() {
			checks = append(checks, validation.Field("TemplateId", validation.IsInvalid(templateID)))
		}
	}

	return validation.Validate("NotificationInfo", checks...)
}

func buildPersonalisation(info *models.NotificationInfo) map[string]interface{} {
	patient := info.Patient
	dateOfBirth := ""
	if !patient.DateOfBirth.IsZero() {
		dateOfBirth = patient.DateOfBirth.Format(dateOfBirthLayout)
	}

	personalisation := map[string]interface{}{
		"nhsNumber":   patient.NhsNumber,
		"givenName":   patient.GivenName,
		"surname":     patient.Surname,
		"dateOfBirth": dateOfBirth,
		"email":       patient.Email,
		"phone":       patient.Phone,
		"address":     patient.Address,
		"postCode":    patient.PostCode,
		"code":        patient.ValidationCode,
	}

	if decision := info.Decision; decision != nil {
		personalisation["decisionChoice"] = decision.DecisionChoice
		personalisation["decisionType"] = decision.DecisionTypeName()

		optional := map[string]string{
			"responsiblePersonGivenName":    decision.ResponsiblePersonGivenName,
			"responsiblePersonSurname":      decision.ResponsiblePersonSurname,
			"responsiblePersonRelationship": decision.ResponsiblePersonRelationship,
		}
		for key, value := range optional {
			if !utils.IsBlank(value) {
				personalisation[key] = value
			}
		}
	}

	if info.Consumer != nil {
		personalisation["consumerName"] = info.Consumer.Name
	}

	return personalisation
}
