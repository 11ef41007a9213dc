package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned when the hub accepts a refresh but sends no token.
var ErrNoToken = errors.New("authsdk: refresh response carried no token")

// HubError is a non-2xx answer from the auth hub.
type HubError struct {
	// StatusCode is the HTTP status code the hub answered with.
	StatusCode int `json:"-"`

	// Code is a short machine readable reason when the hub sends one.
	Code string `json:"error"`

	// Description is a human readable explanation.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *HubError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("auth hub: %d %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("auth hub: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Unauthorized reports whether the hub rejected the presented token.
func (e *HubError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorResponse covers the shapes the hub uses for failures.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	herr := &HubError{StatusCode: resp.StatusCode}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		herr.Code = errResp.Error
		herr.Description = errResp.ErrorDescription
		if herr.Description == "" {
			herr.Description = errResp.Message
		}
	}

	if herr.Code == "" && herr.Description == "" {
		herr.Description = strings.TrimSpace(http.StatusText(resp.StatusCode))
	}

	return herr
}
