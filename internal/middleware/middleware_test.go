package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/security"
	"github.com/nhs-decisions/decision-management-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubValidator struct {
	user *security.User
	err  error
}

func (s stubValidator) Validate(string) (*security.User, error) {
	return s.user, s.err
}

func TestCorrelationID(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, utils.GetCorrelationIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(CorrelationIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(CorrelationIDHeader))
	assert.Equal(t, w.Body.String(), w.Header().Get(CorrelationIDHeader))
}

func newAuthRouter(validator TokenValidator) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(validator, quietLogger()))
	router.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		user, ok := security.UserFromContext(ctx)
		id := security.AnonymousUserID
		if ok {
			id = user.ID
		}
		c.JSON(http.StatusOK, gin.H{
			"user":    id,
			"captcha": security.CaptchaTokenFromContext(ctx),
			"ip":      security.IPAddressFromContext(ctx),
		})
	})
	router.GET("/private", RequireAuthentication(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	validator := stubValidator{user: &security.User{ID: "user-1"}}

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		newAuthRouter(validator).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user":"user-1"`)
	})

	t.Run("anonymous with captcha", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(CaptchaTokenHeader, "captcha-token")
		req.RemoteAddr = "203.0.113.9:5555"
		w := httptest.NewRecorder()
		newAuthRouter(validator).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user":"anonymous"`)
		assert.Contains(t, w.Body.String(), `"captcha":"captcha-token"`)
		assert.Contains(t, w.Body.String(), `"ip":"203.0.113.9"`)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		newAuthRouter(validator).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		newAuthRouter(stubValidator{err: errors.New("bad signature")}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthentication(t *testing.T) {
	router := newAuthRouter(stubValidator{user: &security.User{ID: "user-1"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://decisions.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://decisions.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	router := gin.New()
	router.Use(RequestMetrics(m, quietLogger()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestLatency))
}
