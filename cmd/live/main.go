package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/bndylive/internal/live/app"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	commit = "none"
	date   = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "live",
		Short: "Manage gigs in the bndy live-music calendar",
		Long: `live signs you in through the bndy auth hub and lets builders add
events, venues and artists to the bndy live-music calendar.

Configuration comes from the environment (LIVE_*), optionally loaded
from a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		refreshCmd(),
		keepaliveCmd(),
		eventsCmd(),
		venuesCmd(),
		artistsCmd(),
		placesCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// withApp loads configuration, builds the Application, restores any stored
// session and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	a.Initialize(ctx)
	return fn(ctx, a)
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
