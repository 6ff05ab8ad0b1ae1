package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhs-decisions/decision-management-api/internal/audit"
	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/dao"
	"github.com/nhs-decisions/decision-management-api/internal/database"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/notification"
	"github.com/nhs-decisions/decision-management-api/internal/security"
	"github.com/nhs-decisions/decision-management-api/internal/service"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

const apiSigningKey = "decision-api-signing-key"

// apiEnvironment wires the real services and DAOs over a mocked connection
type apiEnvironment struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock

	noticesMu sync.Mutex
	notices   []map[string]interface{}
}

func (env *apiEnvironment) sentNotices() []map[string]interface{} {
	env.noticesMu.Lock()
	defer env.noticesMu.Unlock()
	return append([]map[string]interface{}(nil), env.notices...)
}

func setupAPIEnvironment(t *testing.T) *apiEnvironment {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &apiEnvironment{mock: mock}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var notice map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&notice)
		env.noticesMu.Lock()
		env.notices = append(env.notices, notice)
		env.noticesMu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"notification-1"}`))
	}))
	t.Cleanup(provider.Close)

	db := database.New(sqlx.NewDb(mockDB, "mysql"), logger)
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry)
	cfg := &config.Config{
		Decision: config.DecisionConfig{
			MaxRetryCount:                           3,
			PatientValidationCodeExpireAfterMinutes: 1440,
			DecisionWorkflowRoles:                   []string{"Decision.Workflow"},
		},
		Notification: config.NotificationConfig{
			BaseURL: provider.URL,
			APIKey:  "provider-key",
			Templates: config.NotificationTemplates{
				EmailSubmissionSuccess: "tmpl-email-success",
				EmailSubscriberUsage:   "tmpl-email-usage",
			},
		},
	}

	clock := utils.SystemClock{}
	ids := utils.UUIDGenerator{}
	securityBroker := security.NewBroker(security.NewRecaptchaVerifier(&cfg.Security.ReCaptcha, logger))
	auditValues := security.NewAuditValues(securityBroker, clock)

	orchestrator := service.NewDecisionOrchestrationService(
		service.NewPatientService(dao.NewPatientDAO(db.DB), auditValues, clock, m, logger),
		service.NewDecisionService(dao.NewDecisionDAO(db.DB), auditValues, clock, m, logger),
		service.NewConsumerService(dao.NewConsumerDAO(db.DB), auditValues, clock, m, logger),
		service.NewConsumerAdoptionService(dao.NewConsumerAdoptionDAO(db.DB), auditValues, clock, m, logger),
		service.NewNotificationService(
			notification.NewClient(&cfg.Notification, logger), cfg.Notification.Templates, m, logger),
		securityBroker,
		audit.NewBroker(dao.NewAuditDAO(db.DB), auditValues, ids, clock, logger),
		ids,
		clock,
		cfg.Decision,
		m,
		logger,
	)

	env.router = SetupRouter(Dependencies{
		Config:         cfg,
		Database:       db,
		Orchestrator:   orchestrator,
		TokenValidator: security.NewTokenValidator(apiSigningKey, "", ""),
		Metrics:        m,
		Gatherer:       registry,
		Logger:         logger,
	})
	return env
}

func (env *apiEnvironment) do(t *testing.T, method, path, body, objectID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		Name:     "Consumer Service",
		ObjectID: objectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(apiSigningKey))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *apiEnvironment) expectConsumers() {
	created := time.Now().Add(-48 * time.Hour).UTC()
	env.mock.ExpectQuery("SELECT (.+) FROM CONSUMER ORDER BY NAME").
		WillReturnRows(sqlmock.NewRows([]string{
			"ID", "NAME", "ENTRA_ID", "CONTACT_PERSON", "CONTACT_EMAIL", "CONTACT_TELEPHONE",
			"CREATED_BY", "CREATED_DATE", "UPDATED_BY", "UPDATED_DATE",
		}).AddRow("consumer-1", "GP Connect", "entra-consumer", "", "", "",
			"admin", created, "admin", created))
}

func decisionRows(created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"ID", "PATIENT_ID", "DECISION_TYPE_ID", "DECISION_CHOICE",
		"RESPONSIBLE_PERSON_GIVEN_NAME", "RESPONSIBLE_PERSON_SURNAME", "RESPONSIBLE_PERSON_RELATIONSHIP",
		"CREATED_BY", "CREATED_DATE", "UPDATED_BY", "UPDATED_DATE", "DECISION_TYPE_NAME",
	}).
		AddRow("decision-1", "patient-1", "type-out", "Opt-Out", nil, nil, nil,
			"anon", created, "anon", created, "Opt-Out").
		AddRow("decision-2", "patient-2", "type-in", "Opt-In", nil, nil, nil,
			"anon", created, "anon", created, "Opt-In")
}

func TestDecisionAPI_ListPendingAdoption(t *testing.T) {
	env := setupAPIEnvironment(t)
	env.expectConsumers()
	env.mock.ExpectQuery("FROM DECISION d").WillReturnRows(decisionRows(time.Now().Add(-time.Hour).UTC()))

	w := env.do(t, http.MethodGet, "/api/v1/decisions/pending-adoption?decisionType=Opt-Out", "", "entra-consumer")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decisions []models.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decisions))
	require.Len(t, decisions, 1)
	assert.Equal(t, "decision-1", decisions[0].ID)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDecisionAPI_ListPendingAdoption_ChangesSince(t *testing.T) {
	env := setupAPIEnvironment(t)
	env.expectConsumers()
	env.mock.ExpectQuery("FROM DECISION d").WillReturnRows(decisionRows(time.Now().Add(-48 * time.Hour).UTC()))

	since := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	w := env.do(t, http.MethodGet, "/api/v1/decisions/pending-adoption?changesSince="+since, "", "entra-consumer")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decisions []models.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decisions))
	assert.Empty(t, decisions)
}

func TestDecisionAPI_UnregisteredConsumer(t *testing.T) {
	env := setupAPIEnvironment(t)
	env.expectConsumers()

	w := env.do(t, http.MethodGet, "/api/v1/decisions/pending-adoption", "", "entra-stranger")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.ErrCodeUnauthorized, response.Code)
}

func TestDecisionAPI_AdoptDecisions(t *testing.T) {
	env := setupAPIEnvironment(t)
	env.expectConsumers()
	adopted := time.Now().Add(-time.Hour).UTC()
	env.mock.ExpectQuery("FROM CONSUMER_ADOPTION").
		WillReturnRows(sqlmock.NewRows([]string{
			"ID", "CONSUMER_ID", "DECISION_ID", "ADOPTION_DATE",
			"CREATED_BY", "CREATED_DATE", "UPDATED_BY", "UPDATED_DATE",
		}).AddRow("adoption-1", "consumer-1", "decision-1", adopted,
			"entra-consumer", adopted, "entra-consumer", adopted))
	env.mock.ExpectExec("INSERT INTO CONSUMER_ADOPTION").
		WithArgs(sqlmock.AnyArg(), "consumer-1", "decision-2",
			sqlmock.AnyArg(), "entra-consumer", sqlmock.AnyArg(), "entra-consumer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	created := time.Now().Add(-2 * time.Hour).UTC()
	env.mock.ExpectQuery(`FROM DECISION d (.+) WHERE d.ID = \?`).WithArgs("decision-2").
		WillReturnRows(sqlmock.NewRows([]string{
			"ID", "PATIENT_ID", "DECISION_TYPE_ID", "DECISION_CHOICE",
			"RESPONSIBLE_PERSON_GIVEN_NAME", "RESPONSIBLE_PERSON_SURNAME", "RESPONSIBLE_PERSON_RELATIONSHIP",
			"CREATED_BY", "CREATED_DATE", "UPDATED_BY", "UPDATED_DATE", "DECISION_TYPE_NAME",
		}).AddRow("decision-2", "patient-2", "type-in", "Opt-In", nil, nil, nil,
			"anon", created, "anon", created, "Opt-In"))
	env.mock.ExpectQuery(`FROM PATIENT WHERE ID = \?`).WithArgs("patient-2").
		WillReturnRows(sqlmock.NewRows([]string{
			"ID", "NHS_NUMBER", "TITLE", "GIVEN_NAME", "SURNAME", "DATE_OF_BIRTH", "GENDER", "EMAIL", "PHONE",
			"ADDRESS", "POST_CODE", "VALIDATION_CODE", "VALIDATION_CODE_EXPIRES_ON", "VALIDATION_CODE_MATCHED_ON",
			"RETRY_COUNT", "NOTIFICATION_PREFERENCE", "CREATED_BY", "CREATED_DATE", "UPDATED_BY", "UPDATED_DATE",
		}).AddRow("patient-2", "9434765919", "", "Grace", "Hopper", created, "", "grace@example.com", "",
			"", "", "QW3RT", created.Add(24*time.Hour), nil,
			0, "Email", "anon", created, "anon", created))

	w := env.do(t, http.MethodPost, "/api/v1/decisions/adoptions",
		`{"decisionIds":["decision-1","decision-2"]}`, "entra-consumer")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var adoptions []models.ConsumerAdoption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adoptions))
	require.Len(t, adoptions, 1)
	assert.Equal(t, "decision-2", adoptions[0].DecisionID)
	assert.NoError(t, env.mock.ExpectationsWereMet())

	notices := env.sentNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, "tmpl-email-usage", notices[0]["template_id"])
	assert.Equal(t, "grace@example.com", notices[0]["email_address"])
	assert.Equal(t, "decision-2", notices[0]["reference"])
	personalisation, ok := notices[0]["personalisation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "GP Connect", personalisation["consumerName"])
	assert.Equal(t, "Opt-In", personalisation["decisionType"])
}

func TestDecisionAPI_StorageUnavailable(t *testing.T) {
	env := setupAPIEnvironment(t)
	env.mock.ExpectQuery("FROM CONSUMER").WillReturnError(io.ErrUnexpectedEOF)

	w := env.do(t, http.MethodGet, "/api/v1/decisions/pending-adoption", "", "entra-consumer")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
