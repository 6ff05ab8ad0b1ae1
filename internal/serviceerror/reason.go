package serviceerror

import (
	"errors"
	"fmt"
)

// Reason names the specific cause behind a service error
type Reason string

const (
	ReasonNull                 Reason = "null"
	ReasonNotFound             Reason = "not_found"
	ReasonAlreadyExists        Reason = "already_exists"
	ReasonInvalidReference     Reason = "invalid_reference"
	ReasonLocked               Reason = "locked"
	ReasonFailedStorage        Reason = "failed_storage"
	ReasonFailedService        Reason = "failed_service"
	ReasonFailedProvider       Reason = "failed_provider"
	ReasonInvalidProviderInput Reason = "invalid_provider_input"
	ReasonUnauthorized         Reason = "unauthorized"
	ReasonInvalidCaptcha       Reason = "invalid_captcha"
	ReasonExceededRetries      Reason = "exceeded_retries"
	ReasonRenewedCode          Reason = "renewed_code"
	ReasonIncorrectCode        Reason = "incorrect_code"
)

// ReasonError is a cause-specific error, optionally wrapping the raw failure
type ReasonError struct {
	Reason  Reason
	Message string
	Err     error
}

// NewReasonError creates a ReasonError
func NewReasonError(reason Reason, message string, err error) *ReasonError {
	return &ReasonError{Reason: reason, Message: message, Err: err}
}

// NotFound builds the error a service returns when storage has no row for id
func NotFound(entity, id string) *ReasonError {
	return NewReasonError(ReasonNotFound, fmt.Sprintf("Couldn't find %s with id: %s.", entity, id), nil)
}

// Null builds the error a service returns when handed a nil entity
func Null(entity string) *ReasonError {
	return NewReasonError(ReasonNull, fmt.Sprintf("%s is null.", entity), nil)
}

func (e *ReasonError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReasonError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the first Reason found in err's chain
func ReasonOf(err error) (Reason, bool) {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}

// HasReason reports whether err's chain carries reason
func HasReason(err error, reason Reason) bool {
	r, ok := ReasonOf(err)
	return ok && r == reason
}
