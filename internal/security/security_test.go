package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
)

const testSigningKey = "test-signing-key"

func signToken(t *testing.T, claims Claims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		Name:  "Agent Smith",
		Roles: []string{"Decisions.Agent"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "issuer",
			Audience:  []string{"decision-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestTokenValidator_Validate(t *testing.T) {
	validator := NewTokenValidator(testSigningKey, "issuer", "decision-api")

	user, err := validator.Validate(signToken(t, validClaims(), testSigningKey))
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Agent Smith", user.Name)
	assert.True(t, user.HasRole("Decisions.Agent"))
}

func TestTokenValidator_CarriesNhsNumber(t *testing.T) {
	validator := NewTokenValidator(testSigningKey, "", "")
	claims := validClaims()
	claims.NhsNumber = "9434765919"

	user, err := validator.Validate(signToken(t, claims, testSigningKey))
	require.NoError(t, err)
	assert.Equal(t, "9434765919", user.NhsNumber)

	user, err = validator.Validate(signToken(t, validClaims(), testSigningKey))
	require.NoError(t, err)
	assert.Empty(t, user.NhsNumber)
}

func TestTokenValidator_PrefersObjectID(t *testing.T) {
	validator := NewTokenValidator(testSigningKey, "", "")
	claims := validClaims()
	claims.ObjectID = "entra-oid"

	user, err := validator.Validate(signToken(t, claims, testSigningKey))
	require.NoError(t, err)
	assert.Equal(t, "entra-oid", user.ID)
}

func TestTokenValidator_Rejects(t *testing.T) {
	validator := NewTokenValidator(testSigningKey, "issuer", "decision-api")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err := validator.Validate(signToken(t, expired, testSigningKey))
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = validator.Validate(signToken(t, validClaims(), "another-key"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := validClaims()
	wrongAudience.Audience = []string{"someone-else"}
	_, err = validator.Validate(signToken(t, wrongAudience, testSigningKey))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = validator.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type stubCaptcha struct {
	valid          bool
	err            error
	token, address string
}

func (s *stubCaptcha) Verify(_ context.Context, token, remoteIP string) (bool, error) {
	s.token, s.address = token, remoteIP
	return s.valid, s.err
}

func TestBroker(t *testing.T) {
	captcha := &stubCaptcha{valid: true}
	broker := NewBroker(captcha)

	anonymous := WithIPAddress(WithCaptchaToken(context.Background(), "captcha-token"), "10.0.0.1")
	assert.False(t, broker.IsCurrentUserAuthenticated(anonymous))
	assert.Equal(t, AnonymousUserID, broker.GetCurrentUser(anonymous).ID)
	assert.False(t, broker.IsInRole(anonymous, "Decisions.Agent"))
	assert.Equal(t, "10.0.0.1", broker.GetIPAddress(anonymous))

	valid, err := broker.ValidateCaptcha(anonymous)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "captcha-token", captcha.token)
	assert.Equal(t, "10.0.0.1", captcha.address)

	authenticated := WithUser(context.Background(), &User{ID: "user-1", Roles: []string{"Decisions.Agent"}})
	assert.True(t, broker.IsCurrentUserAuthenticated(authenticated))
	assert.True(t, broker.IsInRole(authenticated, "Decisions.Agent"))
	assert.False(t, broker.IsInRole(authenticated, "Decisions.Administrator"))
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestAuditValues(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)
	values := NewAuditValues(NewBroker(&stubCaptcha{}), fixedClock{now: now})
	ctx := WithUser(context.Background(), &User{ID: "user-1"})

	var audit models.Audit
	values.ApplyAddAuditValues(ctx, &audit)
	assert.Equal(t, models.Audit{CreatedBy: "user-1", CreatedDate: now, UpdatedBy: "user-1", UpdatedDate: now}, audit)

	audit = models.Audit{CreatedBy: "creator", CreatedDate: created}
	values.ApplyModifyAuditValues(context.Background(), &audit)
	assert.Equal(t, "creator", audit.CreatedBy)
	assert.Equal(t, AnonymousUserID, audit.UpdatedBy)
	assert.Equal(t, now, audit.UpdatedDate)

	stored := models.Audit{CreatedBy: "creator", CreatedDate: created}
	assert.NoError(t, values.EnsureAddAuditValuesRemainUnchangedOnModify(ctx, &audit, &stored))

	tampered := audit
	tampered.CreatedBy = "intruder"
	tampered.CreatedDate = created.Add(time.Second)
	err := values.EnsureAddAuditValuesRemainUnchangedOnModify(ctx, &tampered, &stored)
	var invalid *validation.Error
	require.True(t, errors.As(err, &invalid))
	assert.True(t, invalid.Has("CreatedBy"))
	assert.True(t, invalid.Has("CreatedDate"))
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		status   int
		want     bool
		wantErr  bool
	}{
		{name: "above threshold", response: `{"success": true, "score": 0.9}`, status: http.StatusOK, want: true},
		{name: "below threshold", response: `{"success": true, "score": 0.1}`, status: http.StatusOK, want: false},
		{name: "failed", response: `{"success": false, "error-codes": ["invalid-input-response"]}`, status: http.StatusOK, want: false},
		{name: "server error", response: `oops`, status: http.StatusInternalServerError, wantErr: true},
		{name: "bad json", response: `{`, status: http.StatusOK, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "secret", r.PostForm.Get("secret"))
				assert.Equal(t, "token", r.PostForm.Get("response"))
				assert.Equal(t, "10.0.0.1", r.PostForm.Get("remoteip"))
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			}))
			defer server.Close()

			verifier := NewRecaptchaVerifier(&config.ReCaptchaConfig{
				SecretKey:      "secret",
				VerifyURL:      server.URL,
				ScoreThreshold: 0.5,
			}, logrus.New())

			got, err := verifier.Verify(context.Background(), "token", "10.0.0.1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecaptchaVerifier_EmptyTokenIsInvalid(t *testing.T) {
	verifier := NewRecaptchaVerifier(&config.ReCaptchaConfig{VerifyURL: "http://127.0.0.1:1"}, logrus.New())

	valid, err := verifier.Verify(context.Background(), " ", "")
	assert.NoError(t, err)
	assert.False(t, valid)
}
