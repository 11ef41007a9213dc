package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/bndylive/internal/live/domain"
	"github.com/aussiebroadwan/bndylive/pkg/slogx"
)

// DefaultPlacesURL is the Google Places web service.
const DefaultPlacesURL = "https://maps.googleapis.com"

// detailFields is the field mask for place details.
const detailFields = "name,formatted_address,geometry,place_id"

// Places looks venues up in Google Places. Lookups never fail: API errors,
// ZERO_RESULTS and a missing key all produce empty results and a log line.
type Places struct {
	BaseURL    string
	APIKey     string
	Country    string
	HTTPClient *http.Client
}

func NewPlaces(apiKey, country string) *Places {
	if country == "" {
		country = "gb"
	}
	return &Places{
		BaseURL:    DefaultPlacesURL,
		APIKey:     apiKey,
		Country:    strings.ToLower(country),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Available reports whether lookups can reach the API at all.
func (p *Places) Available() bool { return p != nil && p.APIKey != "" }

type placeResult struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location domain.LatLng `json:"location"`
	} `json:"geometry"`
}

func (r placeResult) toPlace() domain.Place {
	return domain.Place{
		PlaceID:  r.PlaceID,
		Name:     r.Name,
		Address:  r.FormattedAddress,
		Location: r.Geometry.Location,
	}
}

// Search runs a text search restricted to establishments.
func (p *Places) Search(ctx context.Context, query string) []domain.Place {
	var resp struct {
		Status  string        `json:"status"`
		Results []placeResult `json:"results"`
	}
	if !p.get(ctx, "/maps/api/place/textsearch/json", url.Values{
		"query": {query},
		"type":  {"establishment"},
	}, &resp.Status, &resp) {
		return []domain.Place{}
	}

	out := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.toPlace())
	}
	return out
}

// Autocomplete suggests establishments in the configured country.
func (p *Places) Autocomplete(ctx context.Context, input string) []domain.PlacePrediction {
	var resp struct {
		Status      string `json:"status"`
		Predictions []struct {
			PlaceID     string `json:"place_id"`
			Description string `json:"description"`
		} `json:"predictions"`
	}
	if !p.get(ctx, "/maps/api/place/autocomplete/json", url.Values{
		"input":      {input},
		"types":      {"establishment"},
		"components": {"country:" + p.Country},
	}, &resp.Status, &resp) {
		return []domain.PlacePrediction{}
	}

	out := make([]domain.PlacePrediction, 0, len(resp.Predictions))
	for _, pr := range resp.Predictions {
		out = append(out, domain.PlacePrediction{PlaceID: pr.PlaceID, Description: pr.Description})
	}
	return out
}

// Details fetches one place. ok is false when nothing usable came back.
func (p *Places) Details(ctx context.Context, placeID string) (place domain.Place, ok bool) {
	var resp struct {
		Status string      `json:"status"`
		Result placeResult `json:"result"`
	}
	if !p.get(ctx, "/maps/api/place/details/json", url.Values{
		"place_id": {placeID},
		"fields":   {detailFields},
	}, &resp.Status, &resp) {
		return domain.Place{}, false
	}
	return resp.Result.toPlace(), true
}

// PlaceToVenue turns a place into an unsaved, unvalidated venue.
func PlaceToVenue(p domain.Place) domain.Venue {
	return domain.Venue{
		Name:          p.Name,
		Address:       p.Address,
		Location:      p.Location,
		GooglePlaceID: p.PlaceID,
		Validated:     false,
	}
}

// get performs a lookup and reports whether out holds an OK result.
func (p *Places) get(ctx context.Context, path string, q url.Values, status *string, out any) bool {
	l := slogx.FromContext(ctx).With(slog.String("places_path", path))

	if !p.Available() {
		l.Warn("places API is not configured")
		return false
	}

	q.Set("key", p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		l.Warn("failed to build places request", slog.Any("error", stripRequestURL(err)))
		return false
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		l.Warn("places request failed", slog.Any("error", stripRequestURL(err)))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Warn("places API error", slog.Int("status_code", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		l.Warn("failed to decode places response", slog.Any("error", err))
		return false
	}

	switch *status {
	case "OK":
		return true
	case "ZERO_RESULTS":
		return false
	default:
		l.Warn("places API error", slog.String("status", *status))
		return false
	}
}

// stripRequestURL drops the request URL from transport errors. The query
// carries the API key.
func stripRequestURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
