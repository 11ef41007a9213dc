package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("returns new token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/refresh", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "old", req.Token)

			_ = json.NewEncoder(w).Encode(RefreshResponse{Token: "new"})
		}))
		defer srv.Close()

		got, err := NewSDKClient(srv.URL).Refresh(context.Background(), "old")
		require.NoError(t, err)
		require.Equal(t, "new", got)
	})

	t.Run("sends hub cookies back", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				http.SetCookie(w, &http.Cookie{Name: "hub_session", Value: "abc", Path: "/"})
			} else {
				c, err := r.Cookie("hub_session")
				require.NoError(t, err)
				require.Equal(t, "abc", c.Value)
			}
			_ = json.NewEncoder(w).Encode(RefreshResponse{Token: "t"})
		}))
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		_, err := client.Refresh(context.Background(), "a")
		require.NoError(t, err)
		_, err = client.Refresh(context.Background(), "b")
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("missing token in success body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := NewSDKClient(srv.URL).Refresh(context.Background(), "old")
		require.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("hub rejects token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_token","error_description":"expired"}`))
		}))
		defer srv.Close()

		_, err := NewSDKClient(srv.URL).Refresh(context.Background(), "old")

		var herr *HubError
		require.True(t, errors.As(err, &herr))
		require.Equal(t, http.StatusUnauthorized, herr.StatusCode)
		require.Equal(t, "invalid_token", herr.Code)
		require.Equal(t, "expired", herr.Description)
		require.True(t, herr.Unauthorized())
	})

	t.Run("plain text failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewSDKClient(srv.URL).Refresh(context.Background(), "old")

		var herr *HubError
		require.True(t, errors.As(err, &herr))
		require.Equal(t, http.StatusBadGateway, herr.StatusCode)
		require.Equal(t, "Bad Gateway", herr.Description)
		require.False(t, herr.Unauthorized())
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := NewSDKClient(srv.URL).Refresh(context.Background(), "old")
		require.Error(t, err)
	})
}

func TestNavigationURLs(t *testing.T) {
	t.Parallel()

	client := NewSDKClient("https://hub.example.com/")

	require.Equal(t,
		"https://hub.example.com/login?returnTo=http%3A%2F%2F127.0.0.1%3A8976",
		client.LoginURL("http://127.0.0.1:8976"))
	require.Equal(t,
		"https://hub.example.com/auth/logout?returnTo=http%3A%2F%2F127.0.0.1%3A8976",
		client.LogoutURL("http://127.0.0.1:8976"))
}

func TestDefaultBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, NewSDKClient("").BaseURL)
}
