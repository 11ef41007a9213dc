package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity claims carried by tokens minted by the auth hub.
// Only the fields this client consumes are modelled, unknown claims are
// ignored by the decoder.
type Claims struct {
	jwt.RegisteredClaims

	// Email address of the authenticated user
	Email string `json:"email,omitempty"`

	// Name is the display name for the user
	Name string `json:"name,omitempty"`

	// Roles granted by the hub, e.g. ["live_builder"]. May be absent.
	Roles []string `json:"roles,omitempty"`
}

// ValidateExpiry ensures the token is still live at now. A token is live only
// while exp is strictly after now, so a token expiring exactly now is rejected.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}

	if !c.ExpiresAt.After(now) {
		return ErrExpired
	}

	return nil
}

// ValidateSubject ensures the token names a subject.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}

// Expiry returns the exp claim as a time, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
