package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotRecent(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		violated bool
	}{
		{name: "now", date: now, violated: false},
		{name: "ninety seconds ago", date: now.Add(-90 * time.Second), violated: false},
		{name: "one second in the future", date: now.Add(time.Second), violated: true},
		{name: "ninety one seconds ago", date: now.Add(-91 * time.Second), violated: true},
		{name: "zero date", date: time.Time{}, violated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.violated, IsNotRecent(now, tt.date).Violated)
		})
	}
}

func TestIsInvalidNhsNumber(t *testing.T) {
	tests := []struct {
		input    string
		violated bool
	}{
		{input: "1234567890", violated: false},
		{input: "123456789", violated: true},
		{input: "01234567890", violated: true},
		{input: "a123456789", violated: true},
		{input: "", violated: true},
		{input: "          ", violated: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.violated, IsInvalidNhsNumber(tt.input).Violated, "input %q", tt.input)
	}
}

func TestLengthAndPresenceRules(t *testing.T) {
	assert.True(t, IsInvalid("  ").Violated)
	assert.False(t, IsInvalid("x").Violated)
	assert.True(t, IsInvalidID("").Violated)
	assert.True(t, IsInvalidDate(time.Time{}).Violated)
	assert.True(t, IsInvalidLength("abcdef", 5).Violated)
	assert.False(t, IsInvalidLength("abcde", 5).Violated)
	assert.True(t, IsNotExactLength("ABCD", 5).Violated)
	assert.False(t, IsNotExactLength("ABCDE", 5).Violated)
}

func TestSameness(t *testing.T) {
	now := time.Now()
	assert.True(t, IsNotSame("alice", "bob", "UpdatedBy").Violated)
	assert.False(t, IsNotSame("alice", "alice", "UpdatedBy").Violated)
	assert.False(t, IsNotSameDate(now, now.In(time.UTC), "CreatedDate").Violated)
	assert.True(t, IsSameDate(now, now, "CreatedDate").Violated)
	assert.Equal(t, "Date is the same as CreatedDate", IsSameDate(now, now, "CreatedDate").Message)
}

func TestValidate_AggregatesKeyedViolations(t *testing.T) {
	err := Validate("patient",
		Field("NhsNumber", IsInvalidNhsNumber("123")),
		Field("ValidationCode", IsNotExactLength("AB", 5)),
		Field("ValidationCode", IsInvalid("")),
		Field("GivenName", IsInvalid("Ada")),
	)
	require.Error(t, err)

	var invalid *Error
	require.True(t, errors.As(err, &invalid))
	assert.True(t, invalid.Has("NhsNumber"))
	assert.Len(t, invalid.Data["ValidationCode"], 2)
	assert.False(t, invalid.Has("GivenName"))
	assert.Contains(t, err.Error(), "Invalid patient")
}

func TestValidate_NoViolations(t *testing.T) {
	assert.NoError(t, Validate("patient", Field("Id", IsInvalidID("abc"))))
}
