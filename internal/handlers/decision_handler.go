package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/utils"
)

//go:generate mockgen -source=decision_handler.go -destination=mocks/mock_decision_orchestrator.go -package=mocks DecisionOrchestrator

// DecisionOrchestrator is the workflow surface the decision endpoints drive
type DecisionOrchestrator interface {
	CheckIfIsAuthenticatedUserWithRequiredRole(ctx context.Context) (bool, error)
	RetrieveAllPendingAdoptionDecisionsForConsumer(
		ctx context.Context, changesSince time.Time, decisionType string) ([]*models.Decision, error)
	VerifyAndRecordDecision(ctx context.Context, decision *models.Decision) error
	VerifyAndRecordDecisionNhsLogin(ctx context.Context, decision *models.Decision) error
	AdoptDecisionsForConsumer(ctx context.Context, decisionIDs []string) ([]*models.ConsumerAdoption, error)
}

// DecisionHandler handles decision-related HTTP requests
type DecisionHandler struct {
	orchestrator DecisionOrchestrator
	logger       *logrus.Logger
}

// NewDecisionHandler creates a new decision handler instance
func NewDecisionHandler(orchestrator DecisionOrchestrator, logger *logrus.Logger) *DecisionHandler {
	return &DecisionHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// RecordedDecision is returned once a decision has been stored
type RecordedDecision struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
}

// VerifyDecision handles POST /decisions/verify
func (h *DecisionHandler) VerifyDecision(c *gin.Context) {
	var decision models.Decision
	if err := c.ShouldBindJSON(&decision); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.CheckIfIsAuthenticatedUserWithRequiredRole(ctx); err != nil {
		h.fail(c, "Caller may not submit decisions", err)
		return
	}

	if err := h.orchestrator.VerifyAndRecordDecision(ctx, &decision); err != nil {
		h.fail(c, "Failed to verify and record decision", err)
		return
	}

	utils.SendCreatedResponse(c, models.NewSuccessResponse("Decision recorded",
		RecordedDecision{ID: decision.ID, PatientID: decision.PatientID}))
}

// RecordNhsLoginDecision handles POST /decisions/nhs-login
func (h *DecisionHandler) RecordNhsLoginDecision(c *gin.Context) {
	var decision models.Decision
	if err := c.ShouldBindJSON(&decision); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	if err := h.orchestrator.VerifyAndRecordDecisionNhsLogin(c.Request.Context(), &decision); err != nil {
		h.fail(c, "Failed to record decision", err)
		return
	}

	utils.SendCreatedResponse(c, models.NewSuccessResponse("Decision recorded",
		RecordedDecision{ID: decision.ID, PatientID: decision.PatientID}))
}

// ListPendingAdoption handles GET /decisions/pending-adoption
func (h *DecisionHandler) ListPendingAdoption(c *gin.Context) {
	var changesSince time.Time
	if raw := c.Query("changesSince"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.SendBadRequestError(c, "Invalid changesSince, expected RFC3339", err.Error())
			return
		}
		changesSince = parsed.UTC()
	}

	decisions, err := h.orchestrator.RetrieveAllPendingAdoptionDecisionsForConsumer(
		c.Request.Context(), changesSince, c.Query("decisionType"))
	if err != nil {
		h.fail(c, "Failed to retrieve pending decisions", err)
		return
	}

	utils.SendOKResponse(c, decisions)
}

// AdoptDecisions handles POST /decisions/adoptions
func (h *DecisionHandler) AdoptDecisions(c *gin.Context) {
	var request models.AdoptDecisionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	adoptions, err := h.orchestrator.AdoptDecisionsForConsumer(c.Request.Context(), request.DecisionIDs)
	if err != nil {
		h.fail(c, "Failed to adopt decisions", err)
		return
	}

	utils.SendOKResponse(c, adoptions)
}

func (h *DecisionHandler) fail(c *gin.Context, message string, err error) {
	h.logger.WithFields(logrus.Fields{
		"correlation_id": utils.GetCorrelationIDFromContext(c),
		"path":           c.FullPath(),
	}).WithError(err).Warn(message)
	utils.SendServiceError(c, err)
}
