package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/pkg/idx"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDraft    = errors.New("invalid_draft")
	ErrConflict        = errors.New("conflict")
)

// Catalog is the part of the catalogue API event creation needs.
// internal/live/catalog.Client satisfies it.
type Catalog interface {
	CreateVenue(ctx context.Context, v domain.Venue) (domain.Venue, error)
	CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	CheckConflicts(ctx context.Context, e domain.Event) (domain.ConflictVerdict, error)
}

// Sessions exposes the current session. *session.Store satisfies it.
type Sessions interface {
	Snapshot() domain.Session
}

// RequiredRole is the tier needed to add events.
const RequiredRole = domain.RoleBuilder

// DefaultConcurrency bounds parallel event creation for recurring drafts.
const DefaultConcurrency = 4

type EventService struct {
	Catalog  Catalog
	Sessions Sessions

	// Concurrency caps in-flight catalogue writes. Defaults to DefaultConcurrency.
	Concurrency int

	// Now defaults to time.Now.
	Now func() time.Time
}

type CreateRequest struct {
	Draft domain.EventDraft

	// Force skips the conflict check.
	Force bool
}

type CreateResult struct {
	Venue     domain.Venue
	Events    []domain.Event
	SeriesID  idx.ID
	Conflicts []domain.Conflict
}

// Recurring reports whether more than a single date was requested.
func (r CreateResult) Recurring() bool { return !r.SeriesID.IsZero() }

// Authorize checks the current session may add events.
func (s *EventService) Authorize() error {
	snap := s.Sessions.Snapshot()
	if !snap.Authenticated {
		return ErrUnauthenticated
	}
	if !domain.HasCapability(snap.Profile, RequiredRole) {
		return ErrForbidden
	}
	return nil
}

// Create adds the draft to the calendar. A draft without a venue ID gets its
// venue created first. Recurring drafts produce one event per generated date,
// all sharing a series ID. Unless Force is set, a clash reported by the
// conflict check aborts before anything is written and returns ErrConflict
// with the clashes in the result.
func (s *EventService) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	l := slogx.FromContext(ctx)

	if err := s.Authorize(); err != nil {
		return CreateResult{}, err
	}

	draft := req.Draft
	if err := validateDraft(draft); err != nil {
		return CreateResult{}, err
	}

	dates := []time.Time{draft.Date}
	seriesID := idx.Zero
	if draft.Recurring != nil {
		dates = domain.GenerateRecurringDates(draft.Date, draft.Recurring.EndDate, draft.Recurring.Frequency)
		seriesID = idx.New()
	}

	now := s.now().UTC()
	venue := draft.Venue

	if !req.Force {
		conflicts, err := s.checkConflicts(ctx, draft, venue, dates, now)
		if err != nil {
			return CreateResult{}, fmt.Errorf("conflict check: %w", err)
		}
		if len(conflicts) > 0 {
			l.Info("event draft clashes with existing events", slog.Int("conflicts", len(conflicts)))
			return CreateResult{Venue: venue, Conflicts: conflicts}, fmt.Errorf("%w: %d clash(es)", ErrConflict, len(conflicts))
		}
	}

	if venue.ID == "" {
		venue.Validated = false
		created, err := s.Catalog.CreateVenue(ctx, venue)
		if err != nil {
			return CreateResult{}, fmt.Errorf("create venue: %w", err)
		}
		l.Info("venue created", slog.String("venue_id", created.ID), slog.String("name", created.Name))
		venue = created
	}

	events := make([]domain.Event, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())

	for i, d := range dates {
		g.Go(func() error {
			created, err := s.Catalog.CreateEvent(gctx, buildEvent(draft, venue, d, seriesID.String(), now))
			if err != nil {
				return fmt.Errorf("create event for %s: %w", d.Format(domain.DateLayout), err)
			}
			events[i] = created
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CreateResult{}, err
	}

	l.Info("events created",
		slog.Int("count", len(events)),
		slog.String("venue_id", venue.ID),
		slog.String("series_id", seriesID.String()),
	)

	return CreateResult{Venue: venue, Events: events, SeriesID: seriesID}, nil
}

func (s *EventService) checkConflicts(
	ctx context.Context,
	draft domain.EventDraft,
	venue domain.Venue,
	dates []time.Time,
	now time.Time,
) ([]domain.Conflict, error) {
	var (
		mu        sync.Mutex
		conflicts []domain.Conflict
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())

	for _, d := range dates {
		g.Go(func() error {
			verdict, err := s.Catalog.CheckConflicts(gctx, buildEvent(draft, venue, d, "", now))
			if err != nil {
				return err
			}
			if verdict.HasConflicts {
				mu.Lock()
				conflicts = append(conflicts, verdict.Conflicts...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return conflicts, nil
}

func validateDraft(d domain.EventDraft) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDraft)
	case d.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidDraft)
	case strings.TrimSpace(d.StartTime) == "":
		return fmt.Errorf("%w: start time is required", ErrInvalidDraft)
	case d.Venue.ID == "" && strings.TrimSpace(d.Venue.Name) == "":
		return fmt.Errorf("%w: venue is required", ErrInvalidDraft)
	case d.Recurring != nil && d.Recurring.EndDate.Before(d.Date):
		return fmt.Errorf("%w: recurrence ends before it starts", ErrInvalidDraft)
	}
	return nil
}

// buildEvent shapes one catalogue event. Ticket details travel only with
// ticketed events.
func buildEvent(d domain.EventDraft, v domain.Venue, date time.Time, seriesID string, now time.Time) domain.Event {
	artistIDs := make([]string, 0, len(d.Artists))
	for _, a := range d.Artists {
		artistIDs = append(artistIDs, a.ID)
	}

	e := domain.Event{
		Name:        d.Name,
		Date:        date.Format(domain.DateLayout),
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		VenueID:     v.ID,
		VenueName:   v.Name,
		ArtistIDs:   artistIDs,
		Location:    v.Location,
		Description: d.Description,
		Ticketed:    d.Ticketed,
		SeriesID:    seriesID,
		Status:      domain.EventStatusApproved,
		Source:      domain.EventSourceLive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if d.Ticketed {
		e.TicketInformation = d.TicketInformation
		e.TicketURL = d.TicketURL
	}

	return e
}

func (s *EventService) concurrency() int {
	if s.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return s.Concurrency
}

func (s *EventService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
