package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/catalog"
	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	httpapi "github.com/aussiebroadwan/bndylive/internal/live/http"
	"github.com/aussiebroadwan/bndylive/internal/live/service"
	"github.com/aussiebroadwan/bndylive/internal/live/session"
	"github.com/aussiebroadwan/bndylive/internal/live/store"
	"github.com/aussiebroadwan/bndylive/internal/live/store/drivers/memory"
	redisstore "github.com/aussiebroadwan/bndylive/internal/live/store/drivers/redis"
	"github.com/aussiebroadwan/bndylive/internal/live/store/drivers/sqlite"
	"github.com/aussiebroadwan/bndylive/pkg/authsdk"
	"github.com/aussiebroadwan/bndylive/pkg/cryptox"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

var (
	ErrLoginTimeout = errors.New("timed out waiting for the hub to call back")
	ErrLoginFailed  = errors.New("login failed")
)

// Application wires the token store, session and catalogue clients for one
// CLI invocation.
type Application struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer

	// Core dependencies
	tokens store.Store
	hub    *authsdk.SDKClient

	// Services
	sessions *session.Store
	catalog  *catalog.Client
	places   *catalog.Places
	events   *service.EventService

	// navigate receives hub URLs the user has to open. Defaults to printing
	// them on out.
	navigate func(target string)
}

// New creates an Application with every dependency initialised. Hub URLs
// the user must visit are written to out.
func New(cfg Config, out io.Writer) (*Application, error) {
	if out == nil {
		out = os.Stdout
	}

	app := &Application{
		cfg: cfg,
		out: out,
		logger: slogx.New(slogx.Config{
			Service: "live",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}
	app.navigate = app.printNavigation

	if err := app.initStore(context.Background()); err != nil {
		return nil, err
	}

	app.initServices()
	return app, nil
}

func (app *Application) Config() Config                { return app.cfg }
func (app *Application) Logger() *slog.Logger          { return app.logger }
func (app *Application) Sessions() *session.Store      { return app.sessions }
func (app *Application) Catalog() *catalog.Client      { return app.catalog }
func (app *Application) Places() *catalog.Places       { return app.places }
func (app *Application) Events() *service.EventService { return app.events }

// Initialize loads the persisted session, if any.
func (app *Application) Initialize(ctx context.Context) domain.Session {
	app.sessions.Initialize(ctx, nil)
	return app.sessions.Snapshot()
}

// Close releases the token store.
func (app *Application) Close() error {
	if err := app.tokens.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
		return err
	}
	return nil
}

// Login sends the user to the hub and serves the loopback callback until the
// hub returns a usable token, reports an error, or LoginTimeout elapses.
func (app *Application) Login(ctx context.Context) (domain.Session, error) {
	ln, err := net.Listen("tcp", app.cfg.CallbackAddr)
	if err != nil {
		return domain.LoggedOut, fmt.Errorf("listen on %s: %w", app.cfg.CallbackAddr, err)
	}

	loggedIn := make(chan domain.Session, 1)
	failed := make(chan string, 1)

	router := app.newRouter()
	router.OnLogin = func(s domain.Session) {
		select {
		case loggedIn <- s:
		default:
		}
	}
	router.OnError = func(reason string) {
		select {
		case failed <- reason:
		default:
		}
	}
	router.ApplyRoutes()

	server := newServer(router)
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Serve(ln)
	}()
	defer app.shutdownServer(server)

	loc, err := session.ParseLocation("http://" + ln.Addr().String() + "/")
	if err != nil {
		return domain.LoggedOut, err
	}
	loc.OnAssign = app.navigate
	app.sessions.RedirectToLogin(loc)

	app.logger.Info("waiting for hub callback", "addr", ln.Addr().String(), "timeout", app.cfg.LoginTimeout)

	timer := time.NewTimer(app.cfg.LoginTimeout)
	defer timer.Stop()

	select {
	case s := <-loggedIn:
		return s, nil
	case reason := <-failed:
		return app.sessions.Snapshot(), fmt.Errorf("%w: %s", ErrLoginFailed, reason)
	case err := <-serverErrors:
		return domain.LoggedOut, fmt.Errorf("callback server failed: %w", err)
	case <-timer.C:
		return app.sessions.Snapshot(), ErrLoginTimeout
	case <-ctx.Done():
		return app.sessions.Snapshot(), ctx.Err()
	}
}

// Logout clears the stored token and points the user at the hub's logout
// page.
func (app *Application) Logout(ctx context.Context) error {
	loc, err := session.ParseLocation("http://" + app.cfg.CallbackAddr + "/")
	if err != nil {
		return err
	}
	loc.OnAssign = app.navigate
	app.sessions.Logout(ctx, loc)
	return nil
}

// Refresh swaps the stored token for a new one. It reports whether the hub
// issued one.
func (app *Application) Refresh(ctx context.Context) bool {
	return app.sessions.RefreshToken(ctx)
}

// Keepalive runs the refresh keeper and serves the loopback session
// endpoints until ctx is done or a shutdown signal arrives.
func (app *Application) Keepalive(ctx context.Context) error {
	keeper := session.NewKeeper(app.sessions, app.logger, app.cfg.KeepaliveInterval, app.cfg.RefreshLead)
	keeper.Start()
	defer keeper.Stop()

	router := app.newRouter()
	router.ApplyRoutes()
	server := newServer(router)
	server.Addr = app.cfg.CallbackAddr

	app.logger.Info("keepalive starting", "addr", app.cfg.CallbackAddr, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		app.shutdownServer(server)
	case <-ctx.Done():
		app.shutdownServer(server)
	}

	return nil
}

func (app *Application) newRouter() *httpapi.Router {
	return httpapi.NewRouter(app.sessions, BuildVersion, app.logger)
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) shutdownServer(server *http.Server) {
	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}
}

func (app *Application) printNavigation(target string) {
	fmt.Fprintf(app.out, "Open this URL in your browser:\n\n  %s\n\n", target)
}

// initStore opens the configured token store and wraps it in a sealer when
// a master key is configured.
func (app *Application) initStore(ctx context.Context) error {
	var tokens store.Store

	switch app.cfg.Store {
	case StoreSQLite:
		db, err := sqlite.NewStore("file:" + app.cfg.DatabaseFile)
		if err != nil {
			return fmt.Errorf("failed to open token database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.logger.Debug("database migrations applied successfully")
		tokens = db

	case StoreRedis:
		rs := redisstore.NewStore(redisstore.Options{
			Addrs:    app.cfg.Redis.Addrs,
			Password: app.cfg.Redis.Password,
			DB:       app.cfg.Redis.DB,
			Prefix:   app.cfg.Redis.Prefix,
		})
		pingCtx, cancel := context.WithTimeout(ctx, app.cfg.HTTPTimeout)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		tokens = rs

	case StoreMemory:
		tokens = memory.NewStore()

	default:
		return fmt.Errorf("unknown token store %q", app.cfg.Store)
	}

	if app.cfg.MasterKeyPath != "" {
		sealer, err := cryptox.NewSealerFromFile(app.cfg.MasterKeyPath)
		if err != nil {
			_ = tokens.Close()
			return fmt.Errorf("failed to load master key: %w", err)
		}
		tokens = store.NewSealed(tokens, sealer)
		app.logger.Debug("token sealing enabled")
	}

	app.tokens = tokens
	return nil
}

// initServices wires the hub, session and catalogue clients.
func (app *Application) initServices() {
	app.hub = authsdk.NewSDKClient(app.cfg.AuthURL)
	app.hub.HTTPClient.Timeout = app.cfg.HTTPTimeout

	app.sessions = session.New(session.Options{
		Tokens: app.tokens,
		Hub:    app.hub,
		Key:    app.cfg.TokenKey,
		Logger: app.logger,
	})

	app.catalog = catalog.NewClient(app.cfg.CatalogURL, app.sessions.Token)
	app.catalog.HTTPClient.Timeout = app.cfg.HTTPTimeout

	app.places = catalog.NewPlaces(app.cfg.Places.APIKey, app.cfg.Places.Country)
	app.places.HTTPClient.Timeout = app.cfg.HTTPTimeout

	app.events = &service.EventService{
		Catalog:  app.catalog,
		Sessions: app.sessions,
	}
}
