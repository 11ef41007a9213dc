package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/bndylive/internal/live/app"
	"github.com/spf13/cobra"
)

func venuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "Look up catalogue venues",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "search QUERY",
		Short: "Search venues by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				venues, err := a.Catalog().SearchVenues(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tVALIDATED")
				for _, v := range venues {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", v.ID, v.Name, v.Address, v.Validated)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

func artistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artists",
		Short: "Look up catalogue artists",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "search QUERY",
		Short: "Search artists by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				artists, err := a.Catalog().SearchArtists(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, ar := range artists {
					fmt.Fprintf(tw, "%s\t%s\n", ar.ID, ar.Name)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

func placesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Find venues in Google Places",
		Long:  `Needs LIVE_PLACES_API_KEY. Lookups never fail; without a key or on API errors they return nothing.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Text search for establishments",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.Application) error {
					warnPlacesUnavailable(cmd, a)

					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "PLACE ID\tNAME\tADDRESS")
					for _, p := range a.Places().Search(ctx, strings.Join(args, " ")) {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", p.PlaceID, p.Name, p.Address)
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "autocomplete INPUT",
			Short: "Suggest places as you type",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.Application) error {
					warnPlacesUnavailable(cmd, a)

					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "PLACE ID\tDESCRIPTION")
					for _, p := range a.Places().Autocomplete(ctx, strings.Join(args, " ")) {
						fmt.Fprintf(tw, "%s\t%s\n", p.PlaceID, p.Description)
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "details PLACE_ID",
			Short: "Show one place",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.Application) error {
					warnPlacesUnavailable(cmd, a)

					p, ok := a.Places().Details(ctx, args[0])
					if !ok {
						info(cmd, "No place found")
						return nil
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "  Name:     %s\n", p.Name)
					fmt.Fprintf(out, "  Address:  %s\n", p.Address)
					fmt.Fprintf(out, "  Location: %.6f, %.6f\n", p.Location.Lat, p.Location.Lng)
					fmt.Fprintf(out, "  Place ID: %s\n", p.PlaceID)
					return nil
				})
			},
		},
	)

	return cmd
}

func warnPlacesUnavailable(cmd *cobra.Command, a *app.Application) {
	if !a.Places().Available() {
		warn(cmd, "LIVE_PLACES_API_KEY is not set; Places lookups are unavailable")
	}
}
