// Package auth validates the bearer tokens issued to users by the external
// identity provider and can mint equivalent tokens for local development.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for userID.
	// It exists for local use; production tokens come from the identity provider.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation fails
	// (expired, invalid signature, foreign issuer, subject not a UUID, ...).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims holds the parts of a validated token the application uses.
type Claims struct {
	// UserID is the token subject parsed as a UUID.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	Issuer    string    `json:"iss,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
