package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/internal/live/session"
	"github.com/aussiebroadwan/bndylive/pkg/httpx"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
)

// CallbackHandler receives the browser after the hub login. A request
// carrying token runs it through Sessions.Initialize and redirects to a
// clean URL. A request carrying only error reports the failure. Anything
// else renders the current sign-in state.
type CallbackHandler struct {
	Sessions Sessions
	OnLogin  func(domain.Session)
	OnError  func(reason string)
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	httpx.NoCache(w)

	q := r.URL.Query()
	token := q.Get("token")
	hubErr := q.Get("error")
	next := SafeRedirect(q.Get("redirect_to"))

	if token == "" {
		if hubErr != "" {
			log.Warn("hub reported login failure", slog.String("error", hubErr))
			h.fail(hubErr)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.renderStatus(w)
		return
	}

	loc := session.NewMemoryLocation(requestURL(r))
	h.Sessions.Initialize(r.Context(), loc)

	snap := h.Sessions.Snapshot()
	if snap.Authenticated {
		if h.OnLogin != nil {
			h.OnLogin(snap)
		}
	} else {
		h.fail("token rejected")
	}

	if next == "" {
		next = loc.Current().RequestURI()
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *CallbackHandler) fail(reason string) {
	if h.OnError != nil {
		h.OnError(reason)
	}
}

func (h *CallbackHandler) renderStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	snap := h.Sessions.Snapshot()
	if !snap.Authenticated {
		fmt.Fprintln(w, "Not signed in.")
		return
	}

	name := snap.Profile.DisplayName
	if name == "" {
		name = snap.Profile.UID
	}
	fmt.Fprintf(w, "Signed in as %s. You can close this window.\n", name)
}

// requestURL rebuilds the absolute URL the browser used. The loopback
// listener is always plain http.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Scheme = "http"
	u.Host = r.Host
	return &u
}

// SafeRedirect returns target if it is a same-origin path, else "".
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return ""
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return target
}
