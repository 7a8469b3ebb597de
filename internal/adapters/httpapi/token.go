package httpapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of access-token claims the client reads.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken reads the claims of an access token without verifying its signature.
// The backend owns the signing key; the client only needs expiry and identity.
func ParseToken(token string) (*TokenClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	out := &TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// TokenExpired reports whether token is past its expiry at now.
// Opaque or unparseable tokens are treated as live; the backend decides.
func TokenExpired(token string, now time.Time) bool {
	claims, err := ParseToken(token)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(claims.ExpiresAt)
}
