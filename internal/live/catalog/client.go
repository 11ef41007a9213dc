package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
)

// ErrUnauthenticated is returned before any request is made when there is
// no token to present.
var ErrUnauthenticated = errors.New("catalog: no session token")

// APIError is a non-2xx answer from the catalogue API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: %d %s", e.StatusCode, e.Message)
}

// TokenSource yields the bearer token for the current session, or "" when
// logged out.
type TokenSource func() string

// Client talks to the events, venues and artists API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
}

// NewClient creates a catalogue client. token may be nil for anonymous
// reads.
func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Token:      token,
	}
}

// CreateVenue stores v and returns it with the ID the API assigned.
func (c *Client) CreateVenue(ctx context.Context, v domain.Venue) (domain.Venue, error) {
	var out domain.Venue
	if err := c.do(ctx, http.MethodPost, "/api/venues", nil, v, &out, true); err != nil {
		return domain.Venue{}, err
	}
	return out, nil
}

func (c *Client) SearchVenues(ctx context.Context, q string) ([]domain.Venue, error) {
	var out []domain.Venue
	if err := c.do(ctx, http.MethodGet, "/api/venues", url.Values{"q": {q}}, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchArtists(ctx context.Context, q string) ([]domain.Artist, error) {
	var out []domain.Artist
	if err := c.do(ctx, http.MethodGet, "/api/artists", url.Values{"q": {q}}, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent stores e and returns it with the ID the API assigned.
func (c *Client) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", nil, e, &out, true); err != nil {
		return domain.Event{}, err
	}
	return out, nil
}

// ListEvents returns events between from and to inclusive.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	q := url.Values{
		"from": {from.Format(domain.DateLayout)},
		"to":   {to.Format(domain.DateLayout)},
	}

	var out []domain.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", q, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckConflicts asks whether e clashes with an existing event.
func (c *Client) CheckConflicts(ctx context.Context, e domain.Event) (domain.ConflictVerdict, error) {
	var out domain.ConflictVerdict
	if err := c.do(ctx, http.MethodPost, "/api/events/conflicts", nil, e, &out, true); err != nil {
		return domain.ConflictVerdict{}, err
	}
	return out, nil
}

// do sends one request. When auth is set a bearer token is required;
// otherwise it is attached only if present.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	in, out any,
	auth bool,
) error {
	var token string
	if c.Token != nil {
		token = c.Token()
	}
	if auth && token == "" {
		return ErrUnauthenticated
	}

	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}
