// Package session owns the authenticated session: the current token pair and
// user identity. It is the only writer of the durable credential storage; all
// other components read tokens through it or call SetTokens/Logout.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/chanyong1027/sesac-team2-sub001/storage"
)

// TokenPair is the access/refresh token pair issued by the backend. Both are
// opaque bearer strings; nothing client-side parses them. A pair is always
// replaced whole, never field by field.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// User is the authenticated identity from GET /users/me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session holds the current token pair and user. It starts empty, is
// populated by login or Restore, and is cleared whole by Logout.
type Session struct {
	mu     sync.RWMutex
	store  storage.Store
	tokens *TokenPair
	user   *User
}

// New creates an empty session backed by the given durable store.
func New(store storage.Store) (*Session, error) {
	if store == nil {
		return nil, errors.New("[session.New] store is required")
	}
	return &Session{store: store}, nil
}

// Tokens returns a copy of the current pair. The second return is false when
// the session is unauthenticated.
func (s *Session) Tokens() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return TokenPair{}, false
	}
	return *s.tokens, true
}

// SetTokens atomically replaces the token pair and persists both halves to
// durable storage. The in-memory pair is only swapped once both writes
// succeed, so readers never observe a half-updated pair.
func (s *Session) SetTokens(pair TokenPair) error {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return errors.New("[Session.SetTokens] both tokens are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(storage.KeyAccessToken, pair.AccessToken); err != nil {
		return errors.Wrap(err, "[Session.SetTokens] persist access token")
	}
	if err := s.store.Set(storage.KeyRefreshToken, pair.RefreshToken); err != nil {
		return errors.Wrap(err, "[Session.SetTokens] persist refresh token")
	}
	s.tokens = &pair
	return nil
}

// User returns the current identity, or false when none is set.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser records the authenticated identity.
func (s *Session) SetUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// Restore loads a previously persisted pair at process start. A missing pair
// is not an error; the session simply stays unauthenticated. A pair with only
// one half present is treated as absent and cleaned up, since a partial pair
// can never have been written by SetTokens.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, errA := s.store.Get(storage.KeyAccessToken)
	refresh, errR := s.store.Get(storage.KeyRefreshToken)

	if errors.Is(errA, storage.ErrNotFound) || errors.Is(errR, storage.ErrNotFound) {
		s.tokens = nil
		_ = s.store.Delete(storage.KeyAccessToken)
		_ = s.store.Delete(storage.KeyRefreshToken)
		return nil
	}
	if errA != nil {
		return errors.Wrap(errA, "[Session.Restore] read access token")
	}
	if errR != nil {
		return errors.Wrap(errR, "[Session.Restore] read refresh token")
	}

	s.tokens = &TokenPair{AccessToken: access, RefreshToken: refresh}
	return nil
}

// Logout clears the session whole: identity, token pair, and both durable
// storage entries.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = nil
	s.user = nil

	if err := s.store.Delete(storage.KeyAccessToken); err != nil {
		return errors.Wrap(err, "[Session.Logout] clear access token")
	}
	if err := s.store.Delete(storage.KeyRefreshToken); err != nil {
		return errors.Wrap(err, "[Session.Logout] clear refresh token")
	}
	return nil
}
