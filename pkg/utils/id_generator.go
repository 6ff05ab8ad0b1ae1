package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ValidationCodeLength is the number of characters in a patient validation code
const ValidationCodeLength = 5

// validationCodeAlphabet omits characters that are easily misread (0/O, 1/I)
const validationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IDGenerator issues identifiers and one-time validation codes
type IDGenerator interface {
	NewID() string
	NewValidationCode() (string, error)
}

// UUIDGenerator is the production IDGenerator
type UUIDGenerator struct{}

// NewID returns a random UUID
func (UUIDGenerator) NewID() string {
	return GenerateID()
}

// NewValidationCode returns a random validation code
func (UUIDGenerator) NewValidationCode() (string, error) {
	return GenerateValidationCode()
}

// GenerateID generates a new UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateValidationCode returns a cryptographically random code of ValidationCodeLength characters
func GenerateValidationCode() (string, error) {
	max := big.NewInt(int64(len(validationCodeAlphabet)))
	code := make([]byte, ValidationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate validation code: %w", err)
		}
		code[i] = validationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
