package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/pkg/httpx"
)

// SessionResponse is the public view of the session. The token itself is
// never included.
type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Profile       *domain.Profile `json:"profile,omitempty"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
	HighestRole   string          `json:"highestRole,omitempty"`
	RoleLabel     string          `json:"roleLabel,omitempty"`
	RoleColor     string          `json:"roleColor,omitempty"`
	Capabilities  map[string]bool `json:"capabilities,omitempty"`
}

// NewSessionResponse projects s for display.
func NewSessionResponse(s domain.Session) SessionResponse {
	if !s.Authenticated {
		return SessionResponse{}
	}

	resp := SessionResponse{
		Authenticated: true,
		Profile:       s.Profile,
		Capabilities:  make(map[string]bool, len(domain.KnownRoles())),
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	if top, ok := domain.HighestRole(s.Profile); ok {
		d := top.Display()
		resp.HighestRole = top.String()
		resp.RoleLabel = d.Label
		resp.RoleColor = d.Color
	}
	for _, r := range domain.KnownRoles() {
		resp.Capabilities[r.String()] = domain.HasCapability(s.Profile, r)
	}
	return resp
}

func SessionHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, NewSessionResponse(sessions.Snapshot()))
	}
}
