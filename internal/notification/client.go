// Package notification sends email, SMS and letter notifications through a
// GOV.UK Notify compatible REST API.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/config"
)

const (
	emailPath  = "/v2/notifications/email"
	smsPath    = "/v2/notifications/sms"
	letterPath = "/v2/notifications/letter"
)

// ProviderError is a failed call to the provider. StatusCode is 0 when no response arrived.
type ProviderError struct {
	StatusCode int
	Messages   []string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("notification provider unreachable: %v", e.Err)
	}
	return fmt.Sprintf("notification provider returned %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the provider rejected the request itself
func (e *ProviderError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusForbidden
}

type sendRequest struct {
	TemplateID      string                 `json:"template_id"`
	EmailAddress    string                 `json:"email_address,omitempty"`
	PhoneNumber     string                 `json:"phone_number,omitempty"`
	Personalisation map[string]interface{} `json:"personalisation,omitempty"`
	Reference       string                 `json:"reference,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	StatusCode int `json:"status_code"`
	Errors     []struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Client talks to the notification provider
type Client struct {
	httpClient *http.Client
	config     *config.NotificationConfig
	logger     *logrus.Logger
	now        func() time.Time
}

// NewClient creates a new notification client instance
func NewClient(cfg *config.NotificationConfig, logger *logrus.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SendEmail sends an email and returns the provider's notification id
func (c *Client) SendEmail(ctx context.Context, templateID, emailAddress string,
	personalisation map[string]interface{}, reference string) (string, error) {
	return c.send(ctx, emailPath, &sendRequest{
		TemplateID:      templateID,
		EmailAddress:    emailAddress,
		Personalisation: personalisation,
		Reference:       reference,
	})
}

// SendSMS sends a text message and returns the provider's notification id
func (c *Client) SendSMS(ctx context.Context, templateID, phoneNumber string,
	personalisation map[string]interface{}, reference string) (string, error) {
	return c.send(ctx, smsPath, &sendRequest{
		TemplateID:      templateID,
		PhoneNumber:     phoneNumber,
		Personalisation: personalisation,
		Reference:       reference,
	})
}

// SendLetter sends a letter; the address lines travel in personalisation
func (c *Client) SendLetter(ctx context.Context, templateID string,
	personalisation map[string]interface{}, reference string) (string, error) {
	return c.send(ctx, letterPath, &sendRequest{
		TemplateID:      templateID,
		Personalisation: personalisation,
		Reference:       reference,
	})
}

// authToken builds the short-lived bearer token the provider expects
func (c *Client) authToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   c.config.ServiceID,
		IssuedAt: jwt.NewNumericDate(c.now()),
	})
	return token.SignedString([]byte(c.config.APIKey))
}

func (c *Client) send(ctx context.Context, path string, request *sendRequest) (string, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification request: %w", err)
	}

	token, err := c.authToken()
	if err != nil {
		return "", fmt.Errorf("failed to sign notification token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		c.logger.WithError(err).WithField("duration", duration).Error("Notification provider call failed")
		return "", &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"statusCode": resp.StatusCode,
		"duration":   duration,
		"path":       path,
	}).Debug("Notification provider response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", parseProviderError(resp.StatusCode, body)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse notification response: %w", err)
	}

	return result.ID, nil
}

func parseProviderError(statusCode int, body []byte) *ProviderError {
	providerErr := &ProviderError{StatusCode: statusCode}

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		for _, e := range parsed.Errors {
			providerErr.Messages = append(providerErr.Messages, fmt.Sprintf("%s: %s", e.Error, e.Message))
		}
		return providerErr
	}

	providerErr.Messages = []string{strings.TrimSpace(string(body))}
	return providerErr
}
