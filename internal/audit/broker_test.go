package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

type recordingStore struct {
	records []*models.AuditRecord
	err     error
}

func (s *recordingStore) Insert(_ context.Context, record *models.AuditRecord) error {
	s.records = append(s.records, record)
	return s.err
}

type staticUser string

func (u staticUser) GetCurrentUserID(context.Context) string { return string(u) }

type fixedIDs struct{}

func (fixedIDs) NewID() string                      { return "record-1" }
func (fixedIDs) NewValidationCode() (string, error) { return "ABCDE", nil }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newBroker(store Store, buf *bytes.Buffer) *Broker {
	logger := logrus.New()
	logger.SetOutput(buf)
	return NewBroker(store, staticUser("anonymous"), fixedIDs{},
		fixedClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}, logger)
}

func TestLogInformation_StoresRecord(t *testing.T) {
	var buf bytes.Buffer
	store := &recordingStore{}
	broker := newBroker(store, &buf)

	err := broker.LogInformation(context.Background(), "Decision", "Verifying Decision",
		"Patient is verifying a decision", map[string]string{"ipAddress": "10.0.0.1"}, "corr-1")
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	record := store.records[0]
	assert.Equal(t, "record-1", record.ID)
	assert.Equal(t, "corr-1", record.CorrelationID)
	assert.Equal(t, "Decision", record.AuditType)
	assert.Equal(t, "Verifying Decision", record.Title)
	assert.Equal(t, LogLevelInformation, record.LogLevel)
	assert.Equal(t, "anonymous", record.CreatedBy)
	require.NotNil(t, record.Data)
	assert.JSONEq(t, `{"ipAddress":"10.0.0.1"}`, *record.Data)
	assert.Contains(t, buf.String(), "Patient is verifying a decision")
}

func TestLogInformation_NilData(t *testing.T) {
	var buf bytes.Buffer
	store := &recordingStore{}

	require.NoError(t, newBroker(store, &buf).LogInformation(context.Background(), "Decision", "Decision Submitted", "done", nil, "corr-1"))
	assert.Nil(t, store.records[0].Data)
}

func TestLogInformation_StoreFailure(t *testing.T) {
	var buf bytes.Buffer
	store := &recordingStore{err: errors.New("db down")}

	err := newBroker(store, &buf).LogInformation(context.Background(), "Decision", "Decision Submitted", "done", nil, "corr-1")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to store audit record")
}
