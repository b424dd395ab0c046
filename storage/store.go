// Package storage provides durable key-value storage for session credentials.
//
// It is the Go analogue of the browser client's localStorage: a small string
// key-value surface that survives process restarts. Token values are treated as
// secrets; implementations never log them and persist them with owner-only
// file permissions.
package storage

import "errors"

// Well-known keys used by the session layer.
const (
	KeyAccessToken       = "accessToken"
	KeyRefreshToken      = "refreshToken"
	KeyPendingInvitation = "pendingInvitation"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
