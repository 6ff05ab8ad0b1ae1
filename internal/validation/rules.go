// Package validation holds the predicate rules shared by every service's validation pass
// and the keyed error they aggregate into.
package validation

import (
	"fmt"
	"time"

	"github.com/nhs-decisions/decision-management-api/pkg/utils"
)

// RecentWindow is how far in the past an audit timestamp may lie and still count as current
const RecentWindow = 90 * time.Second

// Rule is the outcome of a single predicate
type Rule struct {
	Violated bool
	Message  string
}

// IsInvalid flags a blank string
func IsInvalid(text string) Rule {
	return Rule{Violated: utils.IsBlank(text), Message: "Text is required"}
}

// IsInvalidID flags a blank identifier
func IsInvalidID(id string) Rule {
	return Rule{Violated: utils.IsBlank(id), Message: "Id is required"}
}

// IsInvalidDate flags an unset timestamp
func IsInvalidDate(date time.Time) Rule {
	return Rule{Violated: date.IsZero(), Message: "Date is required"}
}

// IsInvalidLength flags text longer than maxLength characters
func IsInvalidLength(text string, maxLength int) Rule {
	return Rule{
		Violated: utils.ExceedsLength(text, maxLength),
		Message:  fmt.Sprintf("Text exceed max length of %d characters", maxLength),
	}
}

// IsNotExactLength flags text that is not exactly length characters
func IsNotExactLength(text string, length int) Rule {
	return Rule{
		Violated: !utils.HasLength(text, length),
		Message:  fmt.Sprintf("Text must be exactly %d characters long", length),
	}
}

// IsInvalidNhsNumber flags anything that is not exactly ten ASCII digits
func IsInvalidNhsNumber(nhsNumber string) Rule {
	return Rule{
		Violated: len(nhsNumber) != 10 || !utils.IsDigits(nhsNumber),
		Message:  "Text must be exactly 10 digits",
	}
}

// IsNotRecent flags a timestamp outside [now-RecentWindow, now]
func IsNotRecent(now, date time.Time) Rule {
	return Rule{
		Violated: !utils.IsWithinWindow(now, date, RecentWindow),
		Message:  "Date is not recent",
	}
}

// IsNotSame flags two values that differ
func IsNotSame[T comparable](first, second T, secondName string) Rule {
	return Rule{
		Violated: first != second,
		Message:  fmt.Sprintf("Text is not the same as %s", secondName),
	}
}

// IsNotSameDate flags two timestamps that are not the same instant
func IsNotSameDate(first, second time.Time, secondName string) Rule {
	return Rule{
		Violated: !first.Equal(second),
		Message:  fmt.Sprintf("Date is not the same as %s", secondName),
	}
}

// IsSameDate flags two timestamps that are the same instant
func IsSameDate(first, second time.Time, secondName string) Rule {
	return Rule{
		Violated: first.Equal(second),
		Message:  fmt.Sprintf("Date is the same as %s", secondName),
	}
}

// IsNull flags a missing value
func IsNull(missing bool, name string) Rule {
	return Rule{Violated: missing, Message: fmt.Sprintf("%s is required", name)}
}
