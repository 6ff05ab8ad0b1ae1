// Package serviceerror defines the four-tier error taxonomy every service returns
// and the translator that maps raw failures onto it.
package serviceerror

import (
	"errors"
	"fmt"
)

// Kind is the tier of a service error
type Kind int

const (
	// Validation means the caller supplied invalid data
	Validation Kind = iota + 1
	// DependencyValidation means a valid request conflicts with persisted or external state
	DependencyValidation
	// Dependency means storage or a provider failed in a way the caller cannot fix
	Dependency
	// Service means an unanticipated failure
	Service
)

// String returns the kind name used in messages, logs and metric labels
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case DependencyValidation:
		return "dependency_validation"
	case Dependency:
		return "dependency"
	case Service:
		return "service"
	default:
		return "unknown"
	}
}

// Bounded contexts
const (
	ContextPatient               = "Patient"
	ContextDecision              = "Decision"
	ContextConsumer              = "Consumer"
	ContextConsumerAdoption      = "ConsumerAdoption"
	ContextNotification          = "Notification"
	ContextDecisionOrchestration = "DecisionOrchestration"
)

// ServiceError is what every public service method returns on failure.
// Err is the inner cause and stays reachable through errors.Is and errors.As.
type ServiceError struct {
	Context string
	Kind    Kind
	Err     error
}

// New creates a ServiceError
func New(context string, kind Kind, err error) *ServiceError {
	return &ServiceError{Context: context, Kind: kind, Err: err}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s %s error occurred, %s", e.Context, e.Kind, e.message())
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) message() string {
	switch e.Kind {
	case Validation, DependencyValidation:
		return "fix the errors and try again: " + errorText(e.Err)
	default:
		return "contact support: " + errorText(e.Err)
	}
}

func errorText(err error) string {
	if err == nil {
		return "no further details"
	}
	return err.Error()
}

// As returns the outermost ServiceError in err's chain
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether the outermost ServiceError in err's chain is of kind k
func IsKind(err error, k Kind) bool {
	se, ok := As(err)
	return ok && se.Kind == k
}
