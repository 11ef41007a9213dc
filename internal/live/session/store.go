package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/internal/live/store"
	"github.com/aussiebroadwan/bndylive/pkg/authsdk"
	"github.com/aussiebroadwan/bndylive/pkg/cryptox"
	"github.com/aussiebroadwan/bndylive/pkg/jwtx"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
	"golang.org/x/sync/singleflight"
)

// Hub is the part of the auth hub the session needs. pkg/authsdk.SDKClient
// satisfies it.
type Hub interface {
	Refresh(ctx context.Context, token string) (string, error)
	LoginURL(returnTo string) string
	LogoutURL(returnTo string) string
}

type Options struct {
	// Tokens persists the hub token between runs.
	Tokens store.Store

	Hub Hub

	// Key is the storage key for the token. Defaults to store.DefaultTokenKey.
	Key string

	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Store owns the authentication state for one user. It is the only writer
// of the persisted token and of the in-memory Session.
type Store struct {
	tokens store.Store
	hub    Hub
	key    string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	session domain.Session
	subs    []subscriber
	nextSub int

	refreshes singleflight.Group
}

type subscriber struct {
	id int
	fn func(domain.Session)
}

// New returns a logged-out Store. Call Initialize to pick up an existing
// token.
func New(opts Options) *Store {
	if opts.Key == "" {
		opts.Key = store.DefaultTokenKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		tokens:  opts.Tokens,
		hub:     opts.Hub,
		key:     opts.Key,
		logger:  opts.Logger,
		now:     opts.Now,
		session: domain.LoggedOut,
	}
}

// Initialize picks up a token, first from the query string of loc (the hub
// callback) and then from storage. A token found in loc is persisted and
// the callback parameters are removed from loc before the profile is
// loaded. It never fails; every problem leaves the session logged out.
func (s *Store) Initialize(ctx context.Context, loc Location) {
	l := s.log(ctx)

	if loc != nil {
		if cur := loc.Current(); cur != nil {
			if token := cur.Query().Get("token"); token != "" {
				l.Debug("token found in callback url")

				if err := s.tokens.Set(ctx, s.key, token); err != nil {
					l.Warn("failed to persist token", slog.Any("error", err))
				}
				loc.Replace(StripCallbackParams(cur))

				s.LoadProfile(ctx, token)
				return
			}
		}
	}

	token, err := s.tokens.Get(ctx, s.key)
	switch {
	case err == nil:
		l.Debug("token found in storage")
		s.LoadProfile(ctx, token)

	case errors.Is(err, store.ErrNotFound):
		l.Debug("no stored token")
		s.publish(domain.LoggedOut)

	case errors.Is(err, cryptox.ErrOpen):
		l.Warn("stored token could not be unsealed, discarding")
		s.clearStorage(ctx)
		s.publish(domain.LoggedOut)

	default:
		l.Warn("failed to read stored token", slog.Any("error", err))
		s.publish(domain.LoggedOut)
	}
}

// profileResult is the outcome of decoding a token. reason is set exactly
// when profile is nil.
type profileResult struct {
	profile   *domain.Profile
	expiresAt time.Time
	reason    error
}

func decodeProfile(token string, now time.Time) profileResult {
	claims, err := jwtx.DecodeValid(token, now)
	if err != nil {
		return profileResult{reason: err}
	}

	return profileResult{
		profile:   domain.NewProfile(claims.Subject, claims.Email, claims.Name, claims.Roles),
		expiresAt: claims.Expiry(),
	}
}

// LoadProfile decodes token locally and publishes the result. A token that
// fails to decode or has expired clears storage and logs the user out.
func (s *Store) LoadProfile(ctx context.Context, token string) {
	l := s.log(ctx)

	res := decodeProfile(token, s.now())
	if res.reason != nil {
		l.Info("discarding unusable token", slog.Any("reason", res.reason))
		s.clearStorage(ctx)
		s.publish(domain.LoggedOut)
		return
	}

	l.Info("session loaded",
		slog.String("uid", res.profile.UID),
		slog.Any("roles", res.profile.Roles),
		slog.Time("expires_at", res.expiresAt),
	)

	s.publish(domain.Session{
		Authenticated: true,
		Profile:       res.profile,
		Token:         token,
		ExpiresAt:     res.expiresAt,
	})
}

// refreshTimeout bounds a shared refresh. It runs detached from the first
// caller's context so one cancelled caller cannot fail the others.
const refreshTimeout = 30 * time.Second

// RefreshToken swaps the stored token for a new one from the hub. Without a
// stored token it returns false and makes no network call. Any failure
// returns false and leaves the current session as it was. Concurrent calls
// share one hub round trip.
func (s *Store) RefreshToken(ctx context.Context) bool {
	v, _, _ := s.refreshes.Do("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return s.refresh(rctx), nil
	})
	return v.(bool)
}

func (s *Store) refresh(ctx context.Context) bool {
	l := s.log(ctx)

	current, err := s.tokens.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Warn("failed to read stored token", slog.Any("error", err))
		}
		return false
	}

	fresh, err := s.hub.Refresh(ctx, current)
	if err != nil {
		var herr *authsdk.HubError
		if errors.As(err, &herr) && herr.Unauthorized() {
			l.Warn("hub rejected token, sign in again", slog.Int("status", herr.StatusCode))
			return false
		}
		l.Warn("token refresh failed", slog.Any("error", err))
		return false
	}

	if err := s.tokens.Set(ctx, s.key, fresh); err != nil {
		l.Warn("failed to persist refreshed token", slog.Any("error", err))
	}

	s.LoadProfile(ctx, fresh)
	l.Info("token refreshed")
	return true
}

// RedirectToLogin sends loc to the hub's login page. The hub returns the
// user to the origin of loc. Session state is not touched.
func (s *Store) RedirectToLogin(loc Location) {
	loc.Assign(s.hub.LoginURL(Origin(loc.Current())))
}

// Logout clears storage and the in-memory session, then sends loc to the
// hub's logout page.
func (s *Store) Logout(ctx context.Context, loc Location) {
	s.clearStorage(ctx)
	s.publish(domain.LoggedOut)
	s.log(ctx).Info("logged out")

	loc.Assign(s.hub.LogoutURL(Origin(loc.Current())))
}

// Snapshot returns the current session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) IsAuthenticated() bool { return s.Snapshot().Authenticated }

// Profile returns the current profile or nil when logged out.
func (s *Store) Profile() *domain.Profile { return s.Snapshot().Profile }

// Token returns the bearer token of the current session, or "".
func (s *Store) Token() string { return s.Snapshot().Token }

// Subscribe registers fn to be called after every state change. Callbacks
// run outside the lock in registration order. The returned func removes fn.
func (s *Store) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
		})
	}
}

func (s *Store) publish(next domain.Session) {
	s.mu.Lock()
	s.session = next
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.tokens.Delete(ctx, s.key); err != nil {
		s.log(ctx).Warn("failed to clear stored token", slog.Any("error", err))
	}
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	if l := slogx.FromContext(ctx); l != slog.Default() {
		return l
	}
	return s.logger
}
