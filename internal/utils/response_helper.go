package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nhs-decisions/decision-management-api/internal/models"
	"github.com/nhs-decisions/decision-management-api/internal/serviceerror"
	"github.com/nhs-decisions/decision-management-api/internal/validation"
)

// CorrelationIDKey is the gin context key holding the request correlation id
const CorrelationIDKey = "correlation_id"

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.ErrorResponse{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendUnauthorizedError sends a 401 Unauthorized error
func SendUnauthorizedError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, message, "")
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, message, details)
}

// SendServiceError maps a service layer failure onto its HTTP status and error code.
// Keyed field violations are returned under "errors".
func SendServiceError(c *gin.Context, err error) {
	se, ok := serviceerror.As(err)
	if !ok {
		SendInternalServerError(c, "Unexpected error occurred, contact support.", "")
		return
	}

	code := errorCodeFor(se, err)
	response := models.ErrorResponse{
		Code:    code,
		Message: messageFor(se),
	}

	var invalid *validation.Error
	if errors.As(err, &invalid) {
		response.Message = invalid.Message
		response.Errors = invalid.Data
	}

	c.JSON(models.HTTPStatusForErrorCode(code), response)
}

func errorCodeFor(se *serviceerror.ServiceError, err error) string {
	reason, _ := serviceerror.ReasonOf(err)

	switch se.Kind {
	case serviceerror.Validation, serviceerror.DependencyValidation:
		switch reason {
		case serviceerror.ReasonNotFound:
			return models.ErrCodeNotFound
		case serviceerror.ReasonAlreadyExists:
			return models.ErrCodeConflict
		case serviceerror.ReasonLocked:
			return models.ErrCodeLocked
		case serviceerror.ReasonUnauthorized:
			return models.ErrCodeUnauthorized
		case serviceerror.ReasonInvalidCaptcha:
			return models.ErrCodeInvalidCaptcha
		case serviceerror.ReasonInvalidReference:
			return models.ErrCodeInvalidReference
		case serviceerror.ReasonExceededRetries:
			return models.ErrCodeRetriesExceeded
		case serviceerror.ReasonRenewedCode:
			return models.ErrCodeCodeRenewed
		case serviceerror.ReasonIncorrectCode:
			return models.ErrCodeIncorrectCode
		}
		return models.ErrCodeValidationError
	case serviceerror.Dependency:
		return models.ErrCodeDependencyError
	default:
		return models.ErrCodeInternalError
	}
}

func messageFor(se *serviceerror.ServiceError) string {
	var reasonErr *serviceerror.ReasonError
	if errors.As(se.Err, &reasonErr) && reasonErr.Message != "" {
		return reasonErr.Message
	}
	switch se.Kind {
	case serviceerror.Dependency:
		return "A dependency failed, please try again later."
	case serviceerror.Service:
		return "Unexpected error occurred, contact support."
	}
	return se.Error()
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	correlationID, exists := c.Get(CorrelationIDKey)
	if !exists {
		return uuid.New().String()
	}
	return correlationID.(string)
}
