// Package auth provides token-based authentication for showcase-engine.
// Access tokens are signed HS256 JWTs issued at login and carried either in
// the session cookie or an Authorization: Bearer header.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims structure for showcase-engine tokens.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds the user's display identity and role.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw token string from the request context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// Viewer converts claims into the explicit viewer identity passed to
// services. Returns nil if the subject is not a valid UUID.
func (c *Claims) Viewer() *models.Viewer {
	if c == nil {
		return nil
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil
	}

	return &models.Viewer{
		ID:    userID,
		Name:  c.Name,
		Email: c.Email,
		Role:  c.Role,
	}
}
