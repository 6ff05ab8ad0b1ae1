package serviceerror

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Rule maps a matching failure onto a Kind. Inner builds the error the resulting
// ServiceError wraps; when nil the failure is wrapped as is.
type Rule struct {
	Match    func(error) bool
	Kind     Kind
	Critical bool
	Inner    func(error) error
}

// Recorder counts translated errors
type Recorder interface {
	IncServiceError(context, kind string)
}

// Translator applies an ordered rule table to failures from one bounded context.
// The first matching rule wins; failures no rule matches become Service errors.
type Translator struct {
	context  string
	rules    []Rule
	logger   *logrus.Logger
	recorder Recorder
}

// NewTranslator creates a Translator for context
func NewTranslator(context string, logger *logrus.Logger, recorder Recorder, rules ...Rule) *Translator {
	return &Translator{
		context:  context,
		rules:    rules,
		logger:   logger,
		recorder: recorder,
	}
}

// Context returns the bounded context name
func (t *Translator) Context() string {
	return t.context
}

// Translate converts err into a *ServiceError, logging it on the way
func (t *Translator) Translate(err error) error {
	if err == nil {
		return nil
	}

	for _, rule := range t.rules {
		if rule.Match(err) {
			inner := err
			if rule.Inner != nil {
				inner = rule.Inner(err)
			}
			return t.emit(rule.Kind, rule.Critical, inner)
		}
	}

	return t.emit(Service, false,
		NewReasonError(ReasonFailedService, "Failed service error occurred, contact support.", err))
}

func (t *Translator) emit(kind Kind, critical bool, inner error) *ServiceError {
	se := New(t.context, kind, inner)

	if t.logger != nil {
		entry := t.logger.WithFields(logrus.Fields{
			"context": t.context,
			"kind":    kind.String(),
		}).WithError(inner)
		if reason, ok := ReasonOf(inner); ok {
			entry = entry.WithField("reason", string(reason))
		}
		if critical {
			entry = entry.WithField("severity", "critical")
		}
		entry.Error(se.Error())
	}

	if t.recorder != nil {
		t.recorder.IncServiceError(t.context, kind.String())
	}

	return se
}

// Run invokes op and translates any failure it returns
func Run[T any](t *Translator, op func() (T, error)) (T, error) {
	value, err := op()
	if err != nil {
		var zero T
		return zero, t.Translate(err)
	}
	return value, nil
}

// RunErr is Run for operations without a result
func RunErr(t *Translator, op func() error) error {
	return t.Translate(op())
}

// MatchAs matches failures whose chain holds a T
func MatchAs[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// MatchIs matches failures whose chain holds any of targets
func MatchIs(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// MatchReason matches failures whose first ReasonError carries any of reasons
func MatchReason(reasons ...Reason) func(error) bool {
	return func(err error) bool {
		reason, ok := ReasonOf(err)
		if !ok {
			return false
		}
		for _, r := range reasons {
			if r == reason {
				return true
			}
		}
		return false
	}
}

// MatchKind matches failures whose outermost ServiceError is of any of kinds
func MatchKind(kinds ...Kind) func(error) bool {
	return func(err error) bool {
		se, ok := As(err)
		if !ok {
			return false
		}
		for _, k := range kinds {
			if se.Kind == k {
				return true
			}
		}
		return false
	}
}

// WrapReason wraps the failure in a ReasonError
func WrapReason(reason Reason, message string) func(error) error {
	return func(err error) error {
		return NewReasonError(reason, message, err)
	}
}

// UnwrapService strips one ServiceError layer so another context can rewrap the inner cause
func UnwrapService(err error) error {
	if se, ok := As(err); ok && se.Err != nil {
		return se.Err
	}
	return err
}
