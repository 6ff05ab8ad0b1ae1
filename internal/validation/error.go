package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Check pairs a field key with the rule evaluated for it
type Check struct {
	Key  string
	Rule Rule
}

// Field builds a Check
func Field(key string, rule Rule) Check {
	return Check{Key: key, Rule: rule}
}

// Error is an aggregate of keyed rule violations
type Error struct {
	Message string
	Data    map[string][]string
}

// Error renders the violations in a stable order
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Data[k], "; ")))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, ", "))
}

// Has reports whether key carries at least one violation
func (e *Error) Has(key string) bool {
	return len(e.Data[key]) > 0
}

// Add records a violation under key
func (e *Error) Add(key, message string) {
	if e.Data == nil {
		e.Data = make(map[string][]string)
	}
	e.Data[key] = append(e.Data[key], message)
}

// Validate evaluates every check and returns an *Error naming each violated field,
// or nil when nothing is violated
func Validate(subject string, checks ...Check) error {
	invalid := &Error{
		Message: fmt.Sprintf("Invalid %s. Please correct the errors and try again.", subject),
	}
	for _, check := range checks {
		if check.Rule.Violated {
			invalid.Add(check.Key, check.Rule.Message)
		}
	}
	if len(invalid.Data) == 0 {
		return nil
	}
	return invalid
}
