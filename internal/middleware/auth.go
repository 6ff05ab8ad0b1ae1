package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/security"
	"github.com/nhs-decisions/decision-management-api/internal/utils"
)

// CaptchaTokenHeader carries the reCAPTCHA token of anonymous submissions
const CaptchaTokenHeader = "X-Recaptcha-Token"

// TokenValidator turns a bearer token into a user
type TokenValidator interface {
	Validate(token string) (*security.User, error)
}

// Authenticate moves the caller's identity, captcha token and address into the request
// context. Requests without a bearer token continue anonymously; an invalid token is rejected.
func Authenticate(validator TokenValidator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = security.WithIPAddress(ctx, c.ClientIP())

		if token := c.GetHeader(CaptchaTokenHeader); token != "" {
			ctx = security.WithCaptchaToken(ctx, token)
		}

		if header := c.GetHeader("Authorization"); header != "" {
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				utils.SendUnauthorizedError(c, "Authorization header must use the Bearer scheme")
				c.Abort()
				return
			}

			user, err := validator.Validate(token)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"correlation_id": utils.GetCorrelationIDFromContext(c),
					"client_ip":      c.ClientIP(),
				}).WithError(err).Warn("Rejected bearer token")
				utils.SendUnauthorizedError(c, "Invalid or expired token")
				c.Abort()
				return
			}
			ctx = security.WithUser(ctx, user)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuthentication rejects requests that carry no verified user
func RequireAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := security.UserFromContext(c.Request.Context()); !ok {
			utils.SendUnauthorizedError(c, "Authentication is required")
			c.Abort()
			return
		}
		c.Next()
	}
}
