package session

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenSource exposes the session as an oauth2.TokenSource so oauth2-aware
// libraries can ride on the same credentials. The returned token carries no
// expiry; the session's refresh pipeline, not the oauth2 package, decides when
// a token is stale.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{session: s}
}

type tokenSource struct {
	session *Session
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	pair, ok := ts.session.Tokens()
	if !ok {
		return nil, errors.New("[session.TokenSource] session is unauthenticated")
	}
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}
