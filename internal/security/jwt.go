package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the bearer token claims issued by the identity provider
type Claims struct {
	Name              string   `json:"name,omitempty"`
	Email             string   `json:"email,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Roles             []string `json:"roles,omitempty"`
	ObjectID          string   `json:"oid,omitempty"`
	NhsNumber         string   `json:"nhs_number,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is returned for a well-formed but expired token
var ErrTokenExpired = errors.New("token has expired")

// TokenValidator verifies HS256 bearer tokens
type TokenValidator struct {
	signingKey []byte
	issuer     string
	audience   string
}

// NewTokenValidator creates a TokenValidator; empty issuer or audience are not enforced
func NewTokenValidator(signingKey, issuer, audience string) *TokenValidator {
	return &TokenValidator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Validate parses tokenString and resolves the user it identifies
func (v *TokenValidator) Validate(tokenString string) (*User, error) {
	var options []jwt.ParserOption
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.signingKey, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// Entra tokens carry the stable subject in oid; fall back to sub elsewhere
	id := claims.ObjectID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}

	return &User{
		ID:        id,
		Name:      name,
		Email:     claims.Email,
		Roles:     claims.Roles,
		NhsNumber: claims.NhsNumber,
	}, nil
}
