package security

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/config"
)

// RecaptchaVerifier checks reCAPTCHA v3 tokens against the siteverify endpoint
type RecaptchaVerifier struct {
	httpClient *http.Client
	config     *config.ReCaptchaConfig
	logger     *logrus.Logger
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// NewRecaptchaVerifier creates a RecaptchaVerifier
func NewRecaptchaVerifier(cfg *config.ReCaptchaConfig, logger *logrus.Logger) *RecaptchaVerifier {
	timeout := 5 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &RecaptchaVerifier{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		logger:     logger,
	}
}

// Verify reports whether token passes verification with a score at or above the threshold
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.config.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.WithError(err).Error("Captcha verification call failed")
		return false, fmt.Errorf("captcha verification call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read captcha response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verification returned status %d", resp.StatusCode)
	}

	var result siteVerifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to parse captcha response: %w", err)
	}

	valid := result.Success && result.Score >= v.config.ScoreThreshold

	v.logger.WithFields(logrus.Fields{
		"success":     result.Success,
		"score":       result.Score,
		"threshold":   v.config.ScoreThreshold,
		"error_codes": result.ErrorCodes,
		"valid":       valid,
	}).Debug("Captcha verified")

	return valid, nil
}
