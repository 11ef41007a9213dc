package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/internal/live/service"
	"github.com/aussiebroadwan/bndylive/internal/mocks"
	"github.com/aussiebroadwan/bndylive/pkg/idx"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type staticSessions domain.Session

func (s staticSessions) Snapshot() domain.Session { return domain.Session(s) }

func sessionWith(roles ...string) staticSessions {
	return staticSessions{
		Authenticated: true,
		Profile:       domain.NewProfile("user-1", "", "", roles),
		Token:         "tok",
	}
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func draft() domain.EventDraft {
	return domain.EventDraft{
		Name:      "Friday Blues",
		Date:      day("2024-01-05"),
		StartTime: "20:00",
		Venue: domain.Venue{
			ID:       "venue-1",
			Name:     "The Fleece",
			Location: domain.LatLng{Lat: 51.45, Lng: -2.59},
		},
		Artists:           []domain.Artist{{ID: "a1", Name: "One"}, {ID: "a2", Name: "Two"}},
		TicketInformation: "on the door",
		TicketURL:         "https://tickets.example.com",
	}
}

func newService(t *testing.T, sessions service.Sessions) (*service.EventService, *mocks.MockCatalog) {
	t.Helper()
	catalog := mocks.NewMockCatalog(gomock.NewController(t))
	return &service.EventService{
		Catalog:  catalog,
		Sessions: sessions,
		Now:      func() time.Time { return now },
	}, catalog
}

func noConflicts(catalog *mocks.MockCatalog) {
	catalog.EXPECT().CheckConflicts(gomock.Any(), gomock.Any()).Return(domain.ConflictVerdict{}, nil).AnyTimes()
}

func TestCreateGate(t *testing.T) {
	t.Parallel()

	t.Run("logged out", func(t *testing.T) {
		svc, _ := newService(t, staticSessions(domain.LoggedOut))
		_, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft()})
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("giggoer is forbidden", func(t *testing.T) {
		svc, _ := newService(t, sessionWith("live_giggoer"))
		_, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft()})
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("builder admin and godmode pass", func(t *testing.T) {
		for _, r := range []string{"live_builder", "live_admin", "GODMODE"} {
			svc, _ := newService(t, sessionWith(r))
			require.NoError(t, svc.Authorize(), r)
		}
	})
}

func TestCreateSingleEvent(t *testing.T) {
	svc, catalog := newService(t, sessionWith("live_builder"))
	noConflicts(catalog)

	catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e domain.Event) (domain.Event, error) {
			require.Equal(t, "Friday Blues", e.Name)
			require.Equal(t, "2024-01-05", e.Date)
			require.Equal(t, "venue-1", e.VenueID)
			require.Equal(t, "The Fleece", e.VenueName)
			require.Equal(t, []string{"a1", "a2"}, e.ArtistIDs)
			require.Equal(t, domain.LatLng{Lat: 51.45, Lng: -2.59}, e.Location)
			require.Equal(t, domain.EventStatusApproved, e.Status)
			require.Equal(t, domain.EventSourceLive, e.Source)
			require.True(t, e.CreatedAt.Equal(now))
			require.True(t, e.UpdatedAt.Equal(now))
			require.Empty(t, e.SeriesID)
			require.Empty(t, e.EndTime)

			// ticket details only travel with ticketed events
			require.False(t, e.Ticketed)
			require.Empty(t, e.TicketInformation)
			require.Empty(t, e.TicketURL)

			e.ID = "event-1"
			return e, nil
		})

	res, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft()})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	require.Equal(t, "event-1", res.Events[0].ID)
	require.False(t, res.Recurring())
	require.Equal(t, service.NotifyCreated(false), service.NotificationFor(res, err))
}

func TestCreateTicketedEvent(t *testing.T) {
	svc, catalog := newService(t, sessionWith("live_admin"))
	noConflicts(catalog)

	d := draft()
	d.Ticketed = true
	d.EndTime = "23:00"

	catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e domain.Event) (domain.Event, error) {
			require.True(t, e.Ticketed)
			require.Equal(t, "on the door", e.TicketInformation)
			require.Equal(t, "https://tickets.example.com", e.TicketURL)
			require.Equal(t, "23:00", e.EndTime)
			return e, nil
		})

	_, err := svc.Create(context.Background(), service.CreateRequest{Draft: d})
	require.NoError(t, err)
}

func TestCreateNewVenueFirst(t *testing.T) {
	svc, catalog := newService(t, sessionWith("live_builder"))
	noConflicts(catalog)

	d := draft()
	d.Venue = domain.Venue{Name: "New Place", Address: "1 High St", GooglePlaceID: "p1", Validated: true}

	gomock.InOrder(
		catalog.EXPECT().CreateVenue(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, v domain.Venue) (domain.Venue, error) {
				require.False(t, v.Validated)
				require.Equal(t, "p1", v.GooglePlaceID)
				v.ID = "venue-new"
				return v, nil
			}),
		catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e domain.Event) (domain.Event, error) {
				require.Equal(t, "venue-new", e.VenueID)
				require.Equal(t, "New Place", e.VenueName)
				return e, nil
			}),
	)

	res, err := svc.Create(context.Background(), service.CreateRequest{Draft: d})
	require.NoError(t, err)
	require.Equal(t, "venue-new", res.Venue.ID)
}

func TestCreateRecurring(t *testing.T) {
	svc, catalog := newService(t, sessionWith("live_builder"))
	noConflicts(catalog)

	d := draft()
	d.Date = day("2024-01-01")
	d.Recurring = &domain.Recurrence{Frequency: domain.FrequencyWeekly, EndDate: day("2024-01-22")}

	var (
		mu     sync.Mutex
		dates  []string
		series = map[string]struct{}{}
	)
	catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Times(4).DoAndReturn(
		func(_ context.Context, e domain.Event) (domain.Event, error) {
			mu.Lock()
			defer mu.Unlock()
			dates = append(dates, e.Date)
			series[e.SeriesID] = struct{}{}
			return e, nil
		})

	res, err := svc.Create(context.Background(), service.CreateRequest{Draft: d})
	require.NoError(t, err)
	require.True(t, res.Recurring())
	require.NotEmpty(t, res.SeriesID)

	require.ElementsMatch(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}, dates)
	require.Len(t, series, 1)
	require.Contains(t, series, res.SeriesID.String())

	parsed, err := idx.Parse(res.SeriesID.String())
	require.NoError(t, err)
	require.Equal(t, res.SeriesID, parsed)

	// results come back in date order regardless of completion order
	for i, want := range []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"} {
		require.Equal(t, want, res.Events[i].Date)
	}

	n := service.NotificationFor(res, nil)
	require.Equal(t, "Recurring Events Created!", n.Title)
	require.Equal(t, "Successfully added to the calendar.", n.Description)
}

func TestCreateConflict(t *testing.T) {
	t.Parallel()

	clash := domain.ConflictVerdict{
		HasConflicts: true,
		Conflicts:    []domain.Conflict{{Type: "venue", Message: "venue already booked", EventID: "e9"}},
	}

	t.Run("aborts before writing", func(t *testing.T) {
		svc, catalog := newService(t, sessionWith("live_builder"))

		d := draft()
		d.Venue.ID = ""
		catalog.EXPECT().CheckConflicts(gomock.Any(), gomock.Any()).Return(clash, nil)

		res, err := svc.Create(context.Background(), service.CreateRequest{Draft: d})
		require.ErrorIs(t, err, service.ErrConflict)
		require.Equal(t, clash.Conflicts, res.Conflicts)
	})

	t.Run("force skips the check", func(t *testing.T) {
		svc, catalog := newService(t, sessionWith("live_builder"))
		catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(domain.Event{ID: "e1"}, nil)

		_, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft(), Force: true})
		require.NoError(t, err)
	})

	t.Run("check failure", func(t *testing.T) {
		svc, catalog := newService(t, sessionWith("live_builder"))
		catalog.EXPECT().CheckConflicts(gomock.Any(), gomock.Any()).Return(domain.ConflictVerdict{}, errors.New("boom"))

		_, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft()})
		require.Error(t, err)
		require.NotErrorIs(t, err, service.ErrConflict)
	})
}

func TestCreateFailureNotification(t *testing.T) {
	svc, catalog := newService(t, sessionWith("live_builder"))
	noConflicts(catalog)
	catalog.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(domain.Event{}, errors.New("503"))

	res, err := svc.Create(context.Background(), service.CreateRequest{Draft: draft()})
	require.Error(t, err)

	n := service.NotificationFor(res, err)
	require.Equal(t, service.Notification{
		Title:       "Error",
		Description: "There was a problem creating your event. Please try again.",
		Variant:     service.VariantDestructive,
	}, n)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]func(d *domain.EventDraft){
		"no name":       func(d *domain.EventDraft) { d.Name = " " },
		"no date":       func(d *domain.EventDraft) { d.Date = time.Time{} },
		"no start time": func(d *domain.EventDraft) { d.StartTime = "" },
		"no venue":      func(d *domain.EventDraft) { d.Venue = domain.Venue{} },
		"recurrence ends early": func(d *domain.EventDraft) {
			d.Recurring = &domain.Recurrence{Frequency: domain.FrequencyWeekly, EndDate: d.Date.AddDate(0, 0, -1)}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, sessionWith("live_builder"))
			d := draft()
			mutate(&d)

			_, err := svc.Create(context.Background(), service.CreateRequest{Draft: d})
			require.ErrorIs(t, err, service.ErrInvalidDraft)
		})
	}
}
