// Package refresh coordinates token refresh so that any number of requests
// failing with 401 at the same time produce exactly one call to the refresh
// endpoint, with every caller receiving that call's outcome.
package refresh

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/chanyong1027/sesac-team2-sub001/apierr"
	"github.com/chanyong1027/sesac-team2-sub001/session"
)

// DefaultTimeout bounds a single refresh call. A hung refresh would otherwise
// leave every queued request pending indefinitely.
const DefaultTimeout = 15 * time.Second

// singleflight key; there is only ever one refresh to coordinate per session.
const flightKey = "refresh"

// Func performs the actual refresh call. Implementations must use a transport
// that is not itself subject to 401-replay handling.
type Func func(ctx context.Context, refreshToken string) (session.TokenPair, error)

// Coordinator guarantees at most one in-flight refresh per session. Callers
// that arrive while a refresh is underway join it and settle when it settles;
// none of them issue a second refresh call.
type Coordinator struct {
	session *session.Session
	refresh Func
	timeout time.Duration
	group   singleflight.Group
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout overrides the per-refresh timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// New creates a Coordinator over the given session and refresh call.
func New(sess *session.Session, refreshFn Func, options ...Option) (*Coordinator, error) {
	if sess == nil {
		return nil, errors.New("[refresh.New] session is required")
	}
	if refreshFn == nil {
		return nil, errors.New("[refresh.New] refresh func is required")
	}
	c := &Coordinator{
		session: sess,
		refresh: refreshFn,
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// EnsureFreshToken returns once the session holds a token pair newer than the
// one that triggered the caller's 401, or with the refresh failure. Refresh
// failure is fail-closed: the session is logged out and the error wraps
// apierr.ErrSessionExpired.
func (c *Coordinator) EnsureFreshToken(ctx context.Context) error {
	_, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		return nil, c.doRefresh(ctx)
	})
	if err != nil {
		log.Debug().Bool("joined", shared).Msg("token refresh failed")
		return err
	}
	return nil
}

func (c *Coordinator) doRefresh(ctx context.Context) error {
	pair, ok := c.session.Tokens()
	if !ok || pair.RefreshToken == "" {
		return c.fail(errors.WithStack(apierr.ErrNoRefreshToken))
	}

	// The flight outlives the first caller: a caller-side cancel must not
	// abort a refresh that other queued requests are waiting on.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	fresh, err := c.refresh(refreshCtx, pair.RefreshToken)
	if err != nil {
		return c.fail(errors.Wrap(err, "[Coordinator.doRefresh] refresh call"))
	}

	if err := c.session.SetTokens(fresh); err != nil {
		return c.fail(errors.Wrap(err, "[Coordinator.doRefresh] store refreshed tokens"))
	}

	log.Debug().Msg("token refresh succeeded")
	return nil
}

// fail logs the session out and converts the cause into the terminal
// session-expired error every waiter receives.
func (c *Coordinator) fail(cause error) error {
	if err := c.session.Logout(); err != nil {
		log.Warn().Err(err).Msg("logout after failed refresh")
	}
	return errors.Wrap(apierr.ErrSessionExpired, cause.Error())
}
