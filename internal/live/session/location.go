package session

import (
	"net/url"
	"sync"
)

// Location is the address the user is currently "at". In a browser this is
// window.location plus history; here it is whatever carried the hub's
// redirect, usually one request to the loopback callback server.
type Location interface {
	// Current returns a copy of the current URL.
	Current() *url.URL

	// Replace swaps the current URL without navigating.
	Replace(u *url.URL)

	// Assign navigates to target.
	Assign(target string)
}

// callbackParams are the query parameters the hub appends on its way back.
var callbackParams = []string{"token", "error", "redirect_to"}

// StripCallbackParams returns a copy of u without the hub's callback
// parameters. Other parameters are kept.
func StripCallbackParams(u *url.URL) *url.URL {
	out := cloneURL(u)
	q := out.Query()
	for _, p := range callbackParams {
		q.Del(p)
	}
	out.RawQuery = q.Encode()
	return out
}

// Origin is scheme://host of u, the return target handed to the hub.
func Origin(u *url.URL) string {
	if u == nil {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	out := *u
	if u.User != nil {
		user := *u.User
		out.User = &user
	}
	return &out
}

// MemoryLocation is a Location held in memory. Navigation is recorded and
// optionally forwarded to OnAssign, which the CLI uses to print the target.
type MemoryLocation struct {
	mu       sync.Mutex
	current  *url.URL
	assigned string

	OnAssign func(target string)
}

var _ Location = (*MemoryLocation)(nil)

func NewMemoryLocation(u *url.URL) *MemoryLocation {
	return &MemoryLocation{current: cloneURL(u)}
}

// ParseLocation is NewMemoryLocation for a raw URL.
func ParseLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewMemoryLocation(u), nil
}

func (l *MemoryLocation) Current() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneURL(l.current)
}

func (l *MemoryLocation) Replace(u *url.URL) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = cloneURL(u)
}

func (l *MemoryLocation) Assign(target string) {
	l.mu.Lock()
	l.assigned = target
	fn := l.OnAssign
	l.mu.Unlock()

	if fn != nil {
		fn(target)
	}
}

// Assigned returns the last navigation target, or "" if none happened.
func (l *MemoryLocation) Assigned() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assigned
}
