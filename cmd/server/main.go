package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nhs-decisions/decision-management-api/internal/audit"
	"github.com/nhs-decisions/decision-management-api/internal/config"
	"github.com/nhs-decisions/decision-management-api/internal/dao"
	"github.com/nhs-decisions/decision-management-api/internal/database"
	"github.com/nhs-decisions/decision-management-api/internal/metrics"
	"github.com/nhs-decisions/decision-management-api/internal/notification"
	"github.com/nhs-decisions/decision-management-api/internal/router"
	"github.com/nhs-decisions/decision-management-api/internal/security"
	"github.com/nhs-decisions/decision-management-api/internal/service"
	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

const (
	shutdownTimeout = 30 * time.Second
	poolStatsPeriod = 5 * time.Minute
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Decision Management API Server...")

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	db, err := database.Initialize(&cfg.Database.Decision, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	clock := utils.SystemClock{}
	ids := utils.UUIDGenerator{}
	m := metrics.New()

	// Brokers
	captcha := security.NewRecaptchaVerifier(&cfg.Security.ReCaptcha, logger)
	securityBroker := security.NewBroker(captcha)
	auditValues := security.NewAuditValues(securityBroker, clock)
	auditBroker := audit.NewBroker(dao.NewAuditDAO(db.DB), auditValues, ids, clock, logger)
	notificationClient := notification.NewClient(&cfg.Notification, logger)

	// Foundation services
	patients := service.NewPatientService(dao.NewPatientDAO(db.DB), auditValues, clock, m, logger)
	decisions := service.NewDecisionService(dao.NewDecisionDAO(db.DB), auditValues, clock, m, logger)
	consumers := service.NewConsumerService(dao.NewConsumerDAO(db.DB), auditValues, clock, m, logger)
	adoptions := service.NewConsumerAdoptionService(dao.NewConsumerAdoptionDAO(db.DB), auditValues, clock, m, logger)
	notifications := service.NewNotificationService(notificationClient, cfg.Notification.Templates, m, logger)

	orchestrator := service.NewDecisionOrchestrationService(
		patients,
		decisions,
		consumers,
		adoptions,
		notifications,
		securityBroker,
		auditBroker,
		ids,
		clock,
		cfg.Decision,
		m,
		logger,
	)

	logger.Info("Services initialized successfully")

	ginRouter := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		Database:       db,
		Orchestrator:   orchestrator,
		TokenValidator: security.NewTokenValidator(cfg.Security.JWT.SigningKey, cfg.Security.JWT.Issuer, cfg.Security.JWT.Audience),
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:           cfg.Server.GetServerAddress(),
		Handler:        ginRouter,
		ReadTimeout:    orDefault(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout:   orDefault(cfg.Server.WriteTimeout, 15*time.Second),
		IdleTimeout:    orDefault(cfg.Server.IdleTimeout, 60*time.Second),
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", server.Addr).Info("Starting HTTP server...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(poolStatsPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				db.LogStats()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server stopped with error")
		return
	}

	logger.Info("Server exited gracefully")
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
