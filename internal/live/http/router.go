package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/internal/live/session"
	"github.com/aussiebroadwan/bndylive/pkg/httpx"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
)

// Sessions is the part of session.Store the loopback server drives.
type Sessions interface {
	Initialize(ctx context.Context, loc session.Location)
	Snapshot() domain.Session
}

// Router serves the loopback endpoints the hub redirects back to after login.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions     Sessions
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// OnLogin fires once a callback leaves the session authenticated.
	OnLogin func(domain.Session)
	// OnError fires when the hub reports a login failure or the returned
	// token is unusable.
	OnError func(reason string)
}

func NewRouter(sessions Sessions, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		sessions:     sessions,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCallback()
	r.registerSession()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCallback() {
	h := &CallbackHandler{
		Sessions: r.sessions,
		OnLogin:  func(s domain.Session) { r.fireLogin(s) },
		OnError:  func(reason string) { r.fireError(reason) },
	}

	// The hub returns to the origin, so both the root and the explicit
	// callback path accept tokens.
	for _, pattern := range []string{"GET /{$}", "GET /auth/callback"} {
		r.Mux.Handle(pattern,
			httpx.Chain(h,
				httpx.RateLimitByIP(httpx.CallbackLimit),
			),
		)
	}
}

func (r *Router) registerSession() {
	r.Mux.Handle("GET /session",
		httpx.Chain(SessionHandler(r.sessions),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
}

func (r *Router) fireLogin(s domain.Session) {
	if r.OnLogin != nil {
		r.OnLogin(s)
	}
}

func (r *Router) fireError(reason string) {
	if r.OnError != nil {
		r.OnError(reason)
	}
}
