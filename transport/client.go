// Package transport is the authenticated HTTP pipeline. Every outbound call
// carries the session's bearer token and a request ID; every 401 response is
// answered with a single coordinated token refresh followed by exactly one
// replay of the original request.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chanyong1027/sesac-team2-sub001/apierr"
	"github.com/chanyong1027/sesac-team2-sub001/session"
)

// RefreshPath is the one endpoint this client refuses to replay: a 401 from
// the refresh call itself can only mean the session is gone.
const RefreshPath = "/auth/refresh"

const defaultHTTPTimeout = 30 * time.Second

// Refresher coordinates token refresh for replayed requests. Its only
// implementation outside tests is refresh.Coordinator.
type Refresher interface {
	EnsureFreshToken(ctx context.Context) error
}

// Client issues JSON API requests against a versioned base URL. It holds no
// request state of its own; tokens live in the session and refresh
// coordination lives in the Refresher.
type Client struct {
	baseURL   string
	http      *http.Client
	session   *session.Session
	refresher Refresher
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates an authenticated client for the given API base URL.
func New(baseURL string, sess *session.Session, refresher Refresher, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[transport.New] base URL is required")
	}
	if sess == nil {
		return nil, errors.New("[transport.New] session is required")
	}
	if refresher == nil {
		return nil, errors.New("[transport.New] refresher is required")
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultHTTPTimeout},
		session:   sess,
		refresher: refresher,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do issues one API request. body (if non-nil) is JSON-encoded; a 2xx
// response is decoded into out (if non-nil); any other status is returned as
// a *apierr.APIError. On a 401 the request is replayed exactly once after a
// successful coordinated refresh; a second 401 propagates.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.Do] encode %s %s", method, path)
		}
	}

	requestID := uuid.NewString()

	resp, err := c.roundTrip(ctx, method, path, payload, requestID)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && path != RefreshPath {
		closeBody(resp)
		log.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("401 received, requesting token refresh")

		if err := c.refresher.EnsureFreshToken(ctx); err != nil {
			// Refresh failed; the original 401 is superseded by the terminal
			// refresh error.
			return err
		}

		resp, err = c.roundTrip(ctx, method, path, payload, requestID)
		if err != nil {
			return err
		}
		// Fall through: a second 401 is final, same as any other status.
	}

	return c.finish(resp, method, path, requestID, out)
}

// roundTrip builds and sends one request with the current session token
// attached. The payload is a byte slice so a replay re-sends identical bytes.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, requestID string) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.roundTrip] build %s %s", method, path)
	}

	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if pair, ok := c.session.Tokens(); ok {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.roundTrip] %s %s", method, path)
	}
	return resp, nil
}

// finish consumes the response: decode on success, envelope error otherwise.
func (c *Client) finish(resp *http.Response, method, path, requestID string, out interface{}) error {
	defer closeBody(resp)

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.Parse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.finish] decode %s %s", method, path)
	}
	return nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
