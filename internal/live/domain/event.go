package domain

import "time"

// DateLayout is the calendar date format used on the wire and on the CLI.
const DateLayout = "2006-01-02"

// Event sources and statuses written by this client.
const (
	EventSourceLive     = "bndy.live"
	EventStatusApproved = "approved"
)

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Venue is a catalogue venue. An empty ID means it has not been created yet.
type Venue struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Location      LatLng `json:"location"`
	GooglePlaceID string `json:"googlePlaceId,omitempty"`
	Validated     bool   `json:"validated"`
}

// Artist is a catalogue artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recurrence describes how a draft repeats.
type Recurrence struct {
	Frequency Frequency `json:"frequency"`
	EndDate   time.Time `json:"endDate"`
}

// EventDraft is what a user fills in before an event is created.
type EventDraft struct {
	Name              string      `json:"name"`
	Date              time.Time   `json:"date"`
	StartTime         string      `json:"startTime"`
	EndTime           string      `json:"endTime,omitempty"`
	Venue             Venue       `json:"venue"`
	Artists           []Artist    `json:"artists"`
	Description       string      `json:"description,omitempty"`
	Ticketed          bool        `json:"ticketed"`
	TicketInformation string      `json:"ticketinformation,omitempty"`
	TicketURL         string      `json:"ticketUrl,omitempty"`
	Recurring         *Recurrence `json:"recurring,omitempty"`
}

// Event is a catalogue event as stored by the events API.
type Event struct {
	ID                string    `json:"id,omitempty"`
	Name              string    `json:"name"`
	Date              string    `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime,omitempty"`
	VenueID           string    `json:"venueId"`
	VenueName         string    `json:"venueName"`
	ArtistIDs         []string  `json:"artistIds"`
	Location          LatLng    `json:"location"`
	Description       string    `json:"description,omitempty"`
	Ticketed          bool      `json:"ticketed"`
	TicketInformation string    `json:"ticketinformation,omitempty"`
	TicketURL         string    `json:"ticketUrl,omitempty"`
	SeriesID          string    `json:"seriesId,omitempty"`
	Status            string    `json:"status"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ConflictVerdict is the events API answer to a conflict check.
type ConflictVerdict struct {
	HasConflicts bool       `json:"hasConflicts"`
	Conflicts    []Conflict `json:"conflicts,omitempty"`
}

// Conflict names one clash found by the events API.
type Conflict struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	EventID string `json:"eventId,omitempty"`
}

// Place is a candidate location returned by a place search.
type Place struct {
	PlaceID  string `json:"placeId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location LatLng `json:"location"`
}

// PlacePrediction is an autocomplete suggestion.
type PlacePrediction struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}
