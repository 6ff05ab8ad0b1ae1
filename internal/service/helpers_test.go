package service

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/service/mocks"
)

const testUserID = "user-123"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// expectAddAudit makes the broker stamp every audit field with user and at
func expectAddAudit(broker *mocks.MockSecurityAuditBroker, user string, at time.Time) {
	broker.On("ApplyAddAuditValues", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		audit := args.Get(1).(*models.Audit)
		audit.CreatedBy = user
		audit.CreatedDate = at
		audit.UpdatedBy = user
		audit.UpdatedDate = at
	}).Return()
}

// expectModifyAudit makes the broker stamp the update fields with user and at
func expectModifyAudit(broker *mocks.MockSecurityAuditBroker, user string, at time.Time) {
	broker.On("ApplyModifyAuditValues", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		audit := args.Get(1).(*models.Audit)
		audit.UpdatedBy = user
		audit.UpdatedDate = at
	}).Return()
	broker.On("GetCurrentUserID", mock.Anything).Return(user)
}

func storedAudit() models.Audit {
	created := testNow.Add(-24 * time.Hour)
	return models.Audit{
		CreatedBy:   testUserID,
		CreatedDate: created,
		UpdatedBy:   testUserID,
		UpdatedDate: created,
	}
}

func newTestPatient() *models.Patient {
	return &models.Patient{
		ID:                      "patient-1",
		NhsNumber:               "9434765919",
		GivenName:               "Ada",
		Surname:                 "Lovelace",
		DateOfBirth:             time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Email:                   "ada@example.com",
		Phone:                   "07700900000",
		Address:                 "1 Example Street",
		PostCode:                "LS1 4AP",
		ValidationCode:          "AB3CD",
		ValidationCodeExpiresOn: testNow.Add(time.Hour),
		NotificationPreference:  models.NotificationPreferenceEmail,
		Audit:                   storedAudit(),
	}
}

func newTestDecision() *models.Decision {
	return &models.Decision{
		ID:             "decision-1",
		PatientID:      "patient-1",
		DecisionTypeID: "type-opt-out",
		DecisionChoice: "Opt-Out",
		DecisionType:   &models.DecisionType{ID: "type-opt-out", Name: "Opt-Out"},
	}
}
