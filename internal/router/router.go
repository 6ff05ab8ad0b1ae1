package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/handlers"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/middleware"
)

// HealthChecker reports whether storage is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are the collaborators the routes are wired to
type Dependencies struct {
	Config         *config.Config
	Database       HealthChecker
	Orchestrator   handlers.DecisionOrchestrator
	TokenValidator middleware.TokenValidator
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         *logrus.Logger
}

// SetupRouter configures all API routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestMetrics(deps.Metrics, deps.Logger))
	router.Use(middleware.CORS(deps.Config.CORS))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Database.HealthCheck(ctx); err != nil {
			deps.Logger.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	decisionHandler := handlers.NewDecisionHandler(deps.Orchestrator, deps.Logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(deps.TokenValidator, deps.Logger))
	{
		decisions := v1.Group("/decisions")
		{
			decisions.POST("/verify", decisionHandler.VerifyDecision)
			decisions.POST("/nhs-login", middleware.RequireAuthentication(), decisionHandler.RecordNhsLoginDecision)
			decisions.GET("/pending-adoption", middleware.RequireAuthentication(), decisionHandler.ListPendingAdoption)
			decisions.POST("/adoptions", middleware.RequireAuthentication(), decisionHandler.AdoptDecisions)
		}
	}

	return router
}
