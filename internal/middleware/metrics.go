package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/utils"
)

// RequestMetrics records latency per route and logs each completed request
func RequestMetrics(m *metrics.Metrics, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.ObserveRequest(c.Request.Method, route, status, elapsed)

		logger.WithFields(logrus.Fields{
			"correlation_id": utils.GetCorrelationIDFromContext(c),
			"method":         c.Request.Method,
			"route":          route,
			"status":         c.Writer.Status(),
			"duration_ms":    elapsed.Milliseconds(),
		}).Info("Request completed")
	}
}
