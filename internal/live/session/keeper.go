package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
)

// Refresher is what the Keeper drives. *Store satisfies it.
type Refresher interface {
	Snapshot() domain.Session
	RefreshToken(ctx context.Context) bool
}

// Keeper periodically refreshes the token once it is within Lead of expiry,
// so a long running process never holds a dead session.
type Keeper struct {
	Sessions Refresher
	Logger   *slog.Logger
	Interval time.Duration
	Lead     time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewKeeper creates a Keeper. A non-positive interval defaults to one
// minute and a non-positive lead to five minutes.
func NewKeeper(sessions Refresher, logger *slog.Logger, interval, lead time.Duration) *Keeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if lead <= 0 {
		lead = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Keeper{
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		Lead:     lead,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (k *Keeper) Start() {
	go k.run()
	k.logger().Info("session keeper started", "interval", k.Interval, "lead", k.Lead)
}

// Stop shuts the worker down and waits for an in-flight check to finish.
func (k *Keeper) Stop() {
	close(k.stopCh)
	<-k.doneCh
	k.logger().Info("session keeper stopped")
}

func (k *Keeper) run() {
	defer close(k.doneCh)

	ticker := time.NewTicker(k.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-k.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Check immediately on startup
	k.check(ctx)

	for {
		select {
		case <-ticker.C:
			k.check(ctx)
		case <-k.stopCh:
			return
		}
	}
}

// check refreshes when the session is close to expiry. It reports whether a
// refresh was attempted.
func (k *Keeper) check(ctx context.Context) bool {
	l := k.logger()
	snap := k.Sessions.Snapshot()
	if !snap.Authenticated {
		l.Debug("no session to keep alive")
		return false
	}

	now := k.now()
	if !snap.ExpiresWithin(now, k.Lead) {
		l.Debug("session still fresh", "expires_in", snap.ExpiresAt.Sub(now).Round(time.Second))
		return false
	}

	if k.Sessions.RefreshToken(ctx) {
		l.Info("session refreshed", "expires_at", k.Sessions.Snapshot().ExpiresAt)
	} else {
		// the stale session is kept; the next tick retries
		l.Warn("session refresh failed", "expires_at", snap.ExpiresAt)
	}
	return true
}

func (k *Keeper) now() time.Time {
	if k.Now == nil {
		return time.Now()
	}
	return k.Now()
}

func (k *Keeper) logger() *slog.Logger {
	if k.Logger == nil {
		return slog.Default()
	}
	return k.Logger
}
