package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/app"
	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	httpapi "github.com/aussiebroadwan/bndylive/internal/live/http"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the bndy auth hub",
		Long: `Starts a loopback callback server, prints the hub login URL and waits
for the hub to send your browser back with a token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				s, err := a.Login(ctx)
				if err != nil {
					return err
				}
				success(cmd, "Signed in as %s", displayName(s.Profile))
				return nil
			})
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and sign out of the hub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if err := a.Logout(ctx); err != nil {
					return err
				}
				success(cmd, "Signed out")
				return nil
			})
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if !a.Refresh(ctx) {
					return errors.New("token refresh failed; run `live login`")
				}
				s := a.Sessions().Snapshot()
				if !s.Authenticated {
					return errors.New("hub returned an unusable token; run `live login`")
				}
				success(cmd, "Token refreshed, valid until %s", s.ExpiresAt.Local().Format(time.RFC1123))
				return nil
			})
		},
	}
}

func keepaliveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keepalive",
		Short: "Keep the session fresh until interrupted",
		Long: `Refreshes the token shortly before it expires and serves GET /session
and GET /livez on the callback address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if !a.Sessions().IsAuthenticated() {
					warn(cmd, "Not signed in; keepalive will idle until a token is stored")
				}
				return a.Keepalive(ctx)
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, role and capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				view := httpapi.NewSessionResponse(a.Sessions().Snapshot())
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(view)
				}
				printSession(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")

	return cmd
}

func printSession(out io.Writer, v httpapi.SessionResponse) {
	if !v.Authenticated {
		fmt.Fprintln(out, "Not signed in.")
		return
	}

	fmt.Fprintf(out, "  Name:    %s\n", displayName(v.Profile))
	fmt.Fprintf(out, "  Email:   %s\n", v.Profile.Email)
	fmt.Fprintf(out, "  UID:     %s\n", v.Profile.UID)
	if v.HighestRole != "" {
		fmt.Fprintf(out, "  Role:    %s (%s)\n", v.RoleLabel, v.HighestRole)
	}
	if v.ExpiresAt != nil {
		fmt.Fprintf(out, "  Expires: %s\n", v.ExpiresAt.Local().Format(time.RFC1123))
	}

	fmt.Fprintln(out, "  Can act as:")
	for _, r := range domain.KnownRoles() {
		mark := "✗"
		if v.Capabilities[r.String()] {
			mark = "✓"
		}
		fmt.Fprintf(out, "    %s %s\n", mark, r.Display().Label)
	}
}

func displayName(p *domain.Profile) string {
	switch {
	case p == nil:
		return ""
	case p.DisplayName != "":
		return p.DisplayName
	case p.Email != "":
		return p.Email
	default:
		return p.UID
	}
}
