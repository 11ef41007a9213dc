package domain

import "strings"

// Role is a privilege tier granted by the auth hub. The known roles form a
// total order; any other string is carried through as an unranked role.
type Role string

const (
	RoleGodmode Role = "GODMODE"
	RoleAdmin   Role = "live_admin"
	RoleBuilder Role = "live_builder"
	RoleGiggoer Role = "live_giggoer"
)

// DefaultRole is assigned when a token carries no roles.
const DefaultRole = RoleGiggoer

// rolesByRank lists known roles from highest to lowest privilege.
var rolesByRank = []Role{RoleGodmode, RoleAdmin, RoleBuilder, RoleGiggoer}

// KnownRoles returns the closed vocabulary, highest first.
func KnownRoles() []Role {
	out := make([]Role, len(rolesByRank))
	copy(out, rolesByRank)
	return out
}

// Rank orders known roles; higher is more privileged. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleGodmode:
		return 4
	case RoleAdmin:
		return 3
	case RoleBuilder:
		return 2
	case RoleGiggoer:
		return 1
	default:
		return 0
	}
}

// Known reports whether r is part of the closed vocabulary.
func (r Role) Known() bool { return r.Rank() > 0 }

// AtLeast reports whether r satisfies the tier of required. Both must be known.
func (r Role) AtLeast(required Role) bool {
	return r.Known() && required.Known() && r.Rank() >= required.Rank()
}

func (r Role) String() string { return string(r) }

// ParseRole trims s. Case is significant: GODMODE and live_admin are distinct
// vocabularies on the hub.
func ParseRole(s string) Role { return Role(strings.TrimSpace(s)) }

// Display is how a role is presented to people.
type Display struct {
	Label string
	Color string
}

var roleDisplay = map[Role]Display{
	RoleGodmode: {Label: "Admin", Color: "#FFD700"},
	RoleAdmin:   {Label: "Staff", Color: "#C0C0C0"},
	RoleBuilder: {Label: "Builder", Color: "#CD7F32"},
	RoleGiggoer: {Label: "GigGoer", Color: "#0EA5E9"},
}

// Display returns the label and colour for r. Unknown roles show their raw name.
func (r Role) Display() Display {
	if d, ok := roleDisplay[r]; ok {
		return d
	}
	return Display{Label: string(r)}
}

// ParseRoles converts raw role claims into Roles, dropping blanks and
// duplicates while keeping first-seen order. Empty input yields DefaultRole.
func ParseRoles(raw []string) []Role {
	seen := make(map[Role]struct{}, len(raw))
	roles := make([]Role, 0, len(raw))

	for _, s := range raw {
		r := ParseRole(s)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}

	if len(roles) == 0 {
		return []Role{DefaultRole}
	}
	return roles
}

// HasCapability reports whether p may act at the required tier.
//
// GODMODE bypasses every check. A known required role is satisfied by any
// held role of equal or higher rank. An unknown required role needs an exact
// match.
func HasCapability(p *Profile, required Role) bool {
	if p == nil {
		return false
	}

	if p.HasRole(RoleGodmode) {
		return true
	}

	if !required.Known() {
		return p.HasRole(required)
	}

	for _, r := range p.Roles {
		if r.AtLeast(required) {
			return true
		}
	}
	return false
}

// HighestRole returns the most privileged known role p holds.
func HighestRole(p *Profile) (Role, bool) {
	if p == nil {
		return "", false
	}

	for _, r := range rolesByRank {
		if p.HasRole(r) {
			return r, true
		}
	}
	return "", false
}
