package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/handlers/mocks"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/security"
)

type stubDatabase struct {
	err error
}

func (s stubDatabase) HealthCheck(context.Context) error {
	return s.err
}

func newTestRouter(t *testing.T, db HealthChecker) (*gin.Engine, *mocks.MockDecisionOrchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := prometheus.NewRegistry()
	orchestrator := mocks.NewMockDecisionOrchestrator(gomock.NewController(t))

	return SetupRouter(Dependencies{
		Config:         &config.Config{},
		Database:       db,
		Orchestrator:   orchestrator,
		TokenValidator: security.NewTokenValidator("test-signing-key", "", ""),
		Metrics:        metrics.NewWithRegistry(registry),
		Gatherer:       registry,
		Logger:         logger,
	}), orchestrator
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, stubDatabase{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	router, _ = newTestRouter(t, stubDatabase{err: errors.New("down")})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, stubDatabase{})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "decision_mgt_http_request_duration_seconds")
}

func TestConsumerRoutesRequireAuthentication(t *testing.T) {
	router, _ := newTestRouter(t, stubDatabase{})

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/decisions/pending-adoption"},
		{http.MethodPost, "/api/v1/decisions/adoptions"},
		{http.MethodPost, "/api/v1/decisions/nhs-login"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t, stubDatabase{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "corr-7")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "corr-7", w.Header().Get("X-Correlation-ID"))
}
