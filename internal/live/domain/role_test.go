package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/stretchr/testify/require"
)

func profileWith(roles ...domain.Role) *domain.Profile {
	return &domain.Profile{UID: "u1", Roles: roles}
}

// powerSet enumerates every subset of the known roles.
func powerSet() [][]domain.Role {
	known := domain.KnownRoles()
	var out [][]domain.Role
	for mask := 0; mask < 1<<len(known); mask++ {
		var set []domain.Role
		for i, r := range known {
			if mask&(1<<i) != 0 {
				set = append(set, r)
			}
		}
		out = append(out, set)
	}
	return out
}

func TestParseRoles(t *testing.T) {
	t.Parallel()

	t.Run("defaults to giggoer", func(t *testing.T) {
		require.Equal(t, []domain.Role{domain.RoleGiggoer}, domain.ParseRoles(nil))
		require.Equal(t, []domain.Role{domain.RoleGiggoer}, domain.ParseRoles([]string{""}))
	})

	t.Run("keeps order and drops duplicates", func(t *testing.T) {
		got := domain.ParseRoles([]string{"live_admin", "custom", "live_admin"})
		require.Equal(t, []domain.Role{domain.RoleAdmin, domain.Role("custom")}, got)
	})
}

func TestHasCapability(t *testing.T) {
	t.Parallel()

	t.Run("nil profile", func(t *testing.T) {
		for _, r := range domain.KnownRoles() {
			require.False(t, domain.HasCapability(nil, r))
		}
	})

	t.Run("godmode bypasses everything", func(t *testing.T) {
		p := profileWith(domain.RoleGodmode)
		require.True(t, domain.HasCapability(p, domain.RoleAdmin))
		require.True(t, domain.HasCapability(p, domain.Role("anything_at_all")))
	})

	t.Run("admin tier", func(t *testing.T) {
		for _, set := range powerSet() {
			p := profileWith(set...)
			want := p.HasRole(domain.RoleGodmode) || p.HasRole(domain.RoleAdmin)
			require.Equal(t, want, domain.HasCapability(p, domain.RoleAdmin), "roles=%v", set)
		}
		require.False(t, domain.HasCapability(profileWith(domain.RoleBuilder), domain.RoleAdmin))
	})

	t.Run("builder tier", func(t *testing.T) {
		require.True(t, domain.HasCapability(profileWith(domain.RoleBuilder), domain.RoleBuilder))
		require.True(t, domain.HasCapability(profileWith(domain.RoleAdmin), domain.RoleBuilder))
		require.False(t, domain.HasCapability(profileWith(domain.RoleGiggoer), domain.RoleBuilder))
	})

	t.Run("giggoer tier satisfied by any known role", func(t *testing.T) {
		for _, r := range domain.KnownRoles() {
			require.True(t, domain.HasCapability(profileWith(r), domain.RoleGiggoer), "role=%s", r)
		}
	})

	t.Run("unknown roles need exact match", func(t *testing.T) {
		custom := domain.Role("live_moderator")
		require.True(t, domain.HasCapability(profileWith(custom), custom))
		require.False(t, domain.HasCapability(profileWith(domain.RoleAdmin), custom))
		require.False(t, domain.HasCapability(profileWith(custom), domain.RoleGiggoer))
	})

	t.Run("every tier is implied by every higher tier", func(t *testing.T) {
		for _, held := range domain.KnownRoles() {
			for _, required := range domain.KnownRoles() {
				want := held.Rank() >= required.Rank()
				require.Equal(t, want, domain.HasCapability(profileWith(held), required),
					"held=%s required=%s", held, required)
			}
		}
	})
}

func TestHighestRole(t *testing.T) {
	t.Parallel()

	t.Run("absent profile", func(t *testing.T) {
		_, ok := domain.HighestRole(nil)
		require.False(t, ok)
	})

	t.Run("no recognised role", func(t *testing.T) {
		_, ok := domain.HighestRole(profileWith(domain.Role("other")))
		require.False(t, ok)
	})

	t.Run("picks top of hierarchy", func(t *testing.T) {
		r, ok := domain.HighestRole(profileWith(domain.RoleGiggoer, domain.RoleAdmin, domain.RoleBuilder))
		require.True(t, ok)
		require.Equal(t, domain.RoleAdmin, r)
	})

	t.Run("monotonic when adding roles", func(t *testing.T) {
		for _, set := range powerSet() {
			base, _ := domain.HighestRole(profileWith(set...))
			for _, extra := range domain.KnownRoles() {
				grown, ok := domain.HighestRole(profileWith(append(append([]domain.Role{}, set...), extra)...))
				require.True(t, ok)
				require.GreaterOrEqual(t, grown.Rank(), base.Rank(), "set=%v extra=%s", set, extra)
			}
		}
	})
}

func TestRoleDisplay(t *testing.T) {
	require.Equal(t, domain.Display{Label: "Admin", Color: "#FFD700"}, domain.RoleGodmode.Display())
	require.Equal(t, domain.Display{Label: "GigGoer", Color: "#0EA5E9"}, domain.RoleGiggoer.Display())
	require.Equal(t, "custom", domain.Role("custom").Display().Label)
}
