// Package apierr models the backend's error envelope. Every non-2xx response
// carries a JSON body of the form {"code": "C401", "message": "..."}; this
// package pairs that body with the transport status so callers can classify
// failures on (status, code, message) without re-reading response bodies.
package apierr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Sentinel errors for the refresh pipeline.
var (
	// ErrNoRefreshToken means a refresh was requested with no refresh token
	// in the session; there is nothing to refresh with.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrSessionExpired means the refresh call itself failed and the session
	// has been cleared. This is terminal for the session.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a failed backend call: the HTTP status plus the decoded error
// envelope. Code and Message are empty when the body was not the standard
// envelope (e.g. a proxy error page).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// envelope is the backend's wire shape for errors.
type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Parse builds an APIError from a non-2xx response, consuming up to 64KiB of
// its body. The body is best-effort; a malformed envelope still yields an
// APIError carrying the status.
func Parse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}
	apiErr.Code = env.Code
	apiErr.Message = env.Message
	return apiErr
}

// FromError unwraps err to the underlying *APIError, if any.
func FromError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := FromError(err)
	return ok && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 APIError.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
