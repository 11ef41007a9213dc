package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the production auth hub.
const DefaultBaseURL = "https://bndy.co.uk"

// SDKClient talks to the bndy auth hub. It never sees a password: the hub
// performs sign-in in the user's browser and hands back a bearer token.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a hub client whose HTTP client keeps a cookie jar, so
// the hub's session cookie travels with refresh calls.
func NewSDKClient(baseURL string) *SDKClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// publicsuffix stops the hub from setting cookies for a whole TLD.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Refresh exchanges token for a fresh one. The hub answers 2xx with
// {"token": "..."}; a 2xx without a token is ErrNoToken.
func (c *SDKClient) Refresh(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(RefreshRequest{Token: token})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
	if err != nil {
		return "", err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrNoToken
	}

	return out.Token, nil
}

// LoginURL is where a user signs in. The hub sends them back to returnTo.
func (c *SDKClient) LoginURL(returnTo string) string {
	return c.url("/login") + "?returnTo=" + url.QueryEscape(returnTo)
}

// LogoutURL ends the hub's own session and then sends the user to returnTo.
func (c *SDKClient) LogoutURL(returnTo string) string {
	return c.url("/auth/logout") + "?returnTo=" + url.QueryEscape(returnTo)
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	Token string `json:"token"`
}

// RefreshResponse is the success body of POST /api/auth/refresh.
type RefreshResponse struct {
	Token string `json:"token"`
}
