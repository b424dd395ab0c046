package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/chanyong1027/sesac-team2-sub001/apierr"
	"github.com/chanyong1027/sesac-team2-sub001/session"
	"github.com/chanyong1027/sesac-team2-sub001/transport"
)

const loginPath = "/auth/login"

// Auth wraps the authentication endpoints. Login and the refresh func use a
// bare http.Client; Me and Logout use the authenticated transport.
type Auth struct {
	baseURL string
	bare    *http.Client
	session *session.Session
	client  *transport.Client
}

// NewAuth creates the auth API surface.
func NewAuth(baseURL string, bare *http.Client, sess *session.Session, client *transport.Client) (*Auth, error) {
	if baseURL == "" {
		return nil, errors.New("[api.NewAuth] base URL is required")
	}
	if sess == nil {
		return nil, errors.New("[api.NewAuth] session is required")
	}
	if client == nil {
		return nil, errors.New("[api.NewAuth] transport client is required")
	}
	if bare == nil {
		bare = http.DefaultClient
	}
	return &Auth{
		baseURL: strings.TrimRight(baseURL, "/"),
		bare:    bare,
		session: sess,
		client:  client,
	}, nil
}

// Login exchanges credentials for a token pair, stores the pair in the
// session, and loads the user identity.
func (a *Auth) Login(ctx context.Context, email, password string) (session.User, error) {
	body := map[string]string{"email": email, "password": password}

	var tokens TokenResponse
	if err := postBare(ctx, a.bare, a.baseURL+loginPath, body, &tokens); err != nil {
		return session.User{}, errors.Wrap(err, "[Auth.Login] login call")
	}
	if err := a.session.SetTokens(tokens.Pair()); err != nil {
		return session.User{}, errors.Wrap(err, "[Auth.Login] store tokens")
	}

	user, err := a.Me(ctx)
	if err != nil {
		return session.User{}, errors.Wrap(err, "[Auth.Login] load identity")
	}
	a.session.SetUser(user)
	return user, nil
}

// Me returns the authenticated user's identity.
func (a *Auth) Me(ctx context.Context) (session.User, error) {
	var user session.User
	if err := a.client.Get(ctx, "/users/me", &user); err != nil {
		return session.User{}, err
	}
	return user, nil
}

// Logout clears the local session. The backend holds no revocable server-side
// session for this client, so logout is purely local.
func (a *Auth) Logout() error {
	return a.session.Logout()
}

// RefreshFunc returns the refresh call used by the refresh coordinator. It
// posts the refresh token on the bare client, so a 401 from this endpoint is
// a plain failure rather than a trigger for more refreshing.
func RefreshFunc(baseURL string, bare *http.Client) func(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	if bare == nil {
		bare = http.DefaultClient
	}
	url := strings.TrimRight(baseURL, "/") + transport.RefreshPath
	return func(ctx context.Context, refreshToken string) (session.TokenPair, error) {
		body := map[string]string{"refreshToken": refreshToken}
		var tokens TokenResponse
		if err := postBare(ctx, bare, url, body, &tokens); err != nil {
			return session.TokenPair{}, err
		}
		return tokens.Pair(), nil
	}
}

// postBare posts JSON without bearer credentials or replay handling.
func postBare(ctx context.Context, hc *http.Client, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "[api.postBare] encode body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[api.postBare] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "[api.postBare] send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.Parse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[api.postBare] decode response")
	}
	return nil
}
