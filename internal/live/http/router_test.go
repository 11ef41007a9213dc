package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	livehttp "github.com/aussiebroadwan/bndylive/internal/live/http"
	"github.com/aussiebroadwan/bndylive/internal/live/session"
	"github.com/aussiebroadwan/bndylive/internal/live/store"
	"github.com/aussiebroadwan/bndylive/internal/live/store/drivers/memory"
	"github.com/aussiebroadwan/bndylive/internal/mocks"
	"github.com/aussiebroadwan/bndylive/internal/testutil"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	router   *livehttp.Router
	sessions *session.Store
	tokens   *memory.Store

	logins []domain.Session
	errs   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens := memory.NewStore()
	sessions := session.New(session.Options{
		Tokens: tokens,
		Hub:    mocks.NewMockHub(gomock.NewController(t)),
		Logger: slogx.Discard(),
	})

	f := &fixture{sessions: sessions, tokens: tokens}
	f.router = livehttp.NewRouter(sessions, "v1.2.3", slogx.Discard())
	f.router.OnLogin = func(s domain.Session) { f.logins = append(f.logins, s) }
	f.router.OnError = func(reason string) { f.errs = append(f.errs, reason) }
	f.router.ApplyRoutes()
	return f
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "127.0.0.1:8976"
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func validToken(t *testing.T, roles ...string) string {
	return testutil.MintToken(t, testutil.Token{
		Subject:   "user-1",
		Email:     "gig@example.com",
		Name:      "Gig Goer",
		Roles:     roles,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func TestCallbackWithToken(t *testing.T) {
	f := newFixture(t)
	tok := validToken(t, "live_builder")

	rec := f.get(t, "/auth/callback?token="+url.QueryEscape(tok)+"&tab=events")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/callback?tab=events", rec.Header().Get("Location"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	stored, err := f.tokens.Get(t.Context(), store.DefaultTokenKey)
	require.NoError(t, err)
	require.Equal(t, tok, stored)

	require.Len(t, f.logins, 1)
	require.Equal(t, "user-1", f.logins[0].Profile.UID)
	require.Empty(t, f.errs)
}

func TestCallbackAtRoot(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/?token="+url.QueryEscape(validToken(t)))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.True(t, f.sessions.IsAuthenticated())
}

func TestCallbackRedirectTo(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/events/new":            "/events/new",
		"https://evil.example":   "/auth/callback",
		"//evil.example/path":    "/auth/callback",
		"events":                 "/auth/callback",
		"/\\evil.example":        "/auth/callback",
		"/ok?with=query#and-ref": "/ok?with=query#and-ref",
	}

	for redirect, want := range cases {
		t.Run(redirect, func(t *testing.T) {
			f := newFixture(t)
			q := url.Values{"token": {validToken(t)}, "redirect_to": {redirect}}

			rec := f.get(t, "/auth/callback?"+q.Encode())
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, want, rec.Header().Get("Location"))
		})
	}
}

func TestCallbackRejectedToken(t *testing.T) {
	f := newFixture(t)

	expired := testutil.MintToken(t, testutil.Token{Subject: "u", ExpiresAt: time.Now().Add(-time.Minute)})
	rec := f.get(t, "/auth/callback?token="+url.QueryEscape(expired))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	require.False(t, f.sessions.IsAuthenticated())
	require.Empty(t, f.logins)
	require.Equal(t, []string{"token rejected"}, f.errs)

	_, err := f.tokens.Get(t.Context(), store.DefaultTokenKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCallbackHubError(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/auth/callback?error=access_denied")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, []string{"access_denied"}, f.errs)
	require.False(t, f.sessions.IsAuthenticated())
}

func TestCallbackStatusPage(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Not signed in.\n", rec.Body.String())

	f.get(t, "/?token="+url.QueryEscape(validToken(t)))

	rec = f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Signed in as Gig Goer")
}

func TestSessionEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/session")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	tok := validToken(t, "live_admin")
	f.get(t, "/auth/callback?token="+url.QueryEscape(tok))

	rec = f.get(t, "/session")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), tok)

	var body livehttp.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Authenticated)
	require.Equal(t, "live_admin", body.HighestRole)
	require.Equal(t, "Staff", body.RoleLabel)
	require.NotNil(t, body.ExpiresAt)
	require.Equal(t, map[string]bool{
		"GODMODE":      false,
		"live_admin":   true,
		"live_builder": true,
		"live_giggoer": true,
	}, body.Capabilities)
}

func TestLivez(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)

	var body livehttp.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "v1.2.3", body.Version)
}

func TestCallbackRateLimited(t *testing.T) {
	f := newFixture(t)

	var limited bool
	for range 20 {
		if f.get(t, "/auth/callback?error=x").Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited)
}
