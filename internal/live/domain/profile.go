package domain

import (
	"slices"
	"time"
)

// Profile is the user record derived from a valid hub token. Treat it as
// immutable; a refresh produces a new Profile.
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Roles       []Role `json:"roles"`
}

// NewProfile builds a Profile, applying the default role when none are given.
func NewProfile(uid, email, displayName string, roles []string) *Profile {
	return &Profile{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		Roles:       ParseRoles(roles),
	}
}

// HasRole is an exact membership test.
func (p *Profile) HasRole(r Role) bool {
	return p != nil && slices.Contains(p.Roles, r)
}

// Session is the in-memory authentication state. It is replaced as a whole
// on every transition so readers never see a half-updated value.
type Session struct {
	Authenticated bool
	Profile       *Profile
	Token         string
	ExpiresAt     time.Time
}

// LoggedOut is the zero Session.
var LoggedOut = Session{}

// Valid reports whether the session invariant holds: authenticated iff a
// profile and token are present.
func (s Session) Valid() bool {
	if s.Authenticated {
		return s.Profile != nil && s.Token != ""
	}
	return s.Profile == nil && s.Token == ""
}

// ExpiresWithin reports whether an authenticated session expires before
// now+d. Logged-out sessions never do.
func (s Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if !s.Authenticated {
		return false
	}
	return !s.ExpiresAt.After(now.Add(d))
}
