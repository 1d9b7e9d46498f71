package service

import (
	"time"

	"market/internal/domain/entity"
)

// Claims carries what a verified credential token asserts: who the caller is
// and which single role the token was issued for. The subject is the user's
// email; every authenticated call re-resolves the user from it, so a deleted
// or deactivated account fails lookup even inside the token's expiry window.
type Claims struct {
	Subject string // The user's email.
	Role    entity.Role
}

// TokenService defines the interface for generating and validating the
// signed, time-limited credential tokens issued at login.
type TokenService interface {
	// Generate creates a signed token binding the subject email to a role.
	Generate(subject string, role entity.Role) (string, error)

	// Validate checks signature, expiry and shape of a token string and
	// returns its claims.
	Validate(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured token lifetime.
	AccessTokenDuration() time.Duration
}
