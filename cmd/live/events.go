package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/app"
	"github.com/aussiebroadwan/bndylive/internal/live/catalog"
	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/internal/live/service"
	"github.com/aussiebroadwan/bndylive/pkg/idx"
	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and add calendar events",
	}
	cmd.AddCommand(eventsListCmd(), eventsAddCmd())
	return cmd
}

func eventsListCmd() *cobra.Command {
	var from, to, series string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(from, time.Now())
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := parseDate(to, start.AddDate(0, 0, 30))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			seriesID, err := parseSeries(series)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				events, err := a.Catalog().ListEvents(ctx, start, end)
				if err != nil {
					return err
				}
				events = filterSeries(events, seriesID)
				if !seriesID.IsZero() {
					info(cmd, "Series %s, created %s", seriesID, seriesID.Time().Local().Format(time.RFC1123))
				}
				if len(events) == 0 {
					info(cmd, "No events between %s and %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tSTART\tNAME\tVENUE\tID")
				for _, e := range events {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.StartTime, e.Name, e.VenueName, e.ID)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD, default 30 days after --from)")
	cmd.Flags().StringVar(&series, "series", "", "Only events of this recurring series")

	return cmd
}

type addOptions struct {
	name        string
	date        string
	start       string
	end         string
	description string

	venueID      string
	venueName    string
	venueAddress string
	placeID      string

	artists []string

	ticketed   bool
	ticketInfo string
	ticketURL  string

	repeat string
	until  string
	force  bool
}

func eventsAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event (requires the builder role)",
		Long: `Adds an event to the calendar. The venue is either an existing one
(--venue-id with --venue-name), a Google place (--place-id) or a new one
(--venue-name with --venue-address). With --repeat the event is created
for every date up to --until and the events share a series id.

The events API is asked for clashes first; --force skips that check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return runAdd(ctx, cmd, a, opts)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "Event name")
	f.StringVar(&opts.date, "date", "", "Event date (YYYY-MM-DD)")
	f.StringVar(&opts.start, "start", "", "Start time (HH:MM)")
	f.StringVar(&opts.end, "end", "", "End time (HH:MM)")
	f.StringVar(&opts.description, "description", "", "Description")
	f.StringVar(&opts.venueID, "venue-id", "", "Existing venue id")
	f.StringVar(&opts.venueName, "venue-name", "", "Venue name")
	f.StringVar(&opts.venueAddress, "venue-address", "", "Address of a new venue")
	f.StringVar(&opts.placeID, "place-id", "", "Google place id of a new venue")
	f.StringSliceVar(&opts.artists, "artist", nil, "Artist id (repeatable)")
	f.BoolVar(&opts.ticketed, "ticketed", false, "Event needs a ticket")
	f.StringVar(&opts.ticketInfo, "ticket-info", "", "Ticket information")
	f.StringVar(&opts.ticketURL, "ticket-url", "", "Ticket URL")
	f.StringVar(&opts.repeat, "repeat", "", "Repeat weekly or monthly")
	f.StringVar(&opts.until, "until", "", "Last date of a repeating event (YYYY-MM-DD)")
	f.BoolVar(&opts.force, "force", false, "Skip the conflict check")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	cmd.MarkFlagsRequiredTogether("repeat", "until")
	cmd.MarkFlagsMutuallyExclusive("venue-id", "place-id")

	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, a *app.Application, opts addOptions) error {
	// signed-out users are sent to the hub first, as the wizard does
	if err := a.Events().Authorize(); errors.Is(err, service.ErrUnauthenticated) {
		warn(cmd, "Sign in to add events")
		if _, err := a.Login(ctx); err != nil {
			return err
		}
	}
	if err := a.Events().Authorize(); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return fmt.Errorf("adding events needs the %s role", service.RequiredRole.Display().Label)
		}
		return err
	}

	draft, err := buildDraft(ctx, a.Places(), opts)
	if err != nil {
		return err
	}

	res, err := a.Events().Create(ctx, service.CreateRequest{Draft: draft, Force: opts.force})
	if errors.Is(err, service.ErrConflict) {
		warn(cmd, "The events API reported clashes:")
		for _, c := range res.Conflicts {
			info(cmd, "%s: %s %s", c.Type, c.Message, c.EventID)
		}
		return errors.New("not created; re-run with --force to add anyway")
	}

	n := service.NotificationFor(res, err)
	if err != nil {
		a.Logger().Error("event creation failed", "error", err)
		return errors.New(n.Title + ": " + n.Description)
	}

	success(cmd, "%s %s", n.Title, n.Description)
	for _, e := range res.Events {
		info(cmd, "%s  %s  %s", e.Date, e.StartTime, e.ID)
	}
	if res.Recurring() {
		info(cmd, "series %s, created %s", res.SeriesID, res.SeriesID.Time().Local().Format(time.RFC1123))
	}
	return nil
}

func buildDraft(ctx context.Context, places *catalog.Places, opts addOptions) (domain.EventDraft, error) {
	date, err := time.Parse(domain.DateLayout, opts.date)
	if err != nil {
		return domain.EventDraft{}, fmt.Errorf("--date: %w", err)
	}

	venue, err := resolveVenue(ctx, places, opts)
	if err != nil {
		return domain.EventDraft{}, err
	}

	draft := domain.EventDraft{
		Name:              opts.name,
		Date:              date,
		StartTime:         opts.start,
		EndTime:           opts.end,
		Venue:             venue,
		Description:       opts.description,
		Ticketed:          opts.ticketed,
		TicketInformation: opts.ticketInfo,
		TicketURL:         opts.ticketURL,
	}
	for _, id := range opts.artists {
		draft.Artists = append(draft.Artists, domain.Artist{ID: id})
	}

	if opts.repeat != "" {
		until, err := time.Parse(domain.DateLayout, opts.until)
		if err != nil {
			return domain.EventDraft{}, fmt.Errorf("--until: %w", err)
		}
		draft.Recurring = &domain.Recurrence{
			Frequency: domain.ParseFrequency(opts.repeat),
			EndDate:   until,
		}
	}

	return draft, nil
}

func resolveVenue(ctx context.Context, places *catalog.Places, opts addOptions) (domain.Venue, error) {
	switch {
	case opts.venueID != "":
		if opts.venueName == "" {
			return domain.Venue{}, errors.New("--venue-id needs --venue-name")
		}
		return domain.Venue{ID: opts.venueID, Name: opts.venueName}, nil

	case opts.placeID != "":
		if !places.Available() {
			return domain.Venue{}, errors.New("--place-id needs LIVE_PLACES_API_KEY")
		}
		p, ok := places.Details(ctx, opts.placeID)
		if !ok {
			return domain.Venue{}, fmt.Errorf("place %q not found", opts.placeID)
		}
		return catalog.PlaceToVenue(p), nil

	case opts.venueName != "":
		return domain.Venue{Name: opts.venueName, Address: opts.venueAddress}, nil

	default:
		return domain.Venue{}, errors.New("a venue is required: --venue-id, --place-id or --venue-name")
	}
}

// parseDate parses s as a calendar date, or returns def's date when s is empty.
func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := def.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(domain.DateLayout, s)
}

// parseSeries validates a --series value. Empty means every series.
func parseSeries(s string) (idx.ID, error) {
	if strings.TrimSpace(s) == "" {
		return idx.Zero, nil
	}
	id, err := idx.Parse(s)
	if err != nil {
		return idx.Zero, fmt.Errorf("--series: %w", err)
	}
	return id, nil
}

// filterSeries keeps the events of series id, or all events for the zero id.
func filterSeries(events []domain.Event, id idx.ID) []domain.Event {
	if id.IsZero() {
		return events
	}

	var out []domain.Event
	for _, e := range events {
		if e.SeriesID == id.String() {
			out = append(out, e)
		}
	}
	return out
}
