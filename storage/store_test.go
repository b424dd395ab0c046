package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chanyong1027/sesac-team2-sub001/storage"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(storage.KeyAccessToken, "token-1"))

	got, err := s.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "token-1", got)

	// A fresh store over the same directory must see the persisted value.
	s2, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	got, err = s2.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "token-1", got)
}

func TestFileStoreMissingKey(t *testing.T) {
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("nope")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(storage.KeyRefreshToken, "rt"))
	require.NoError(t, s.Delete(storage.KeyRefreshToken))

	_, err = s.Get(storage.KeyRefreshToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(storage.KeyRefreshToken))
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(storage.KeyAccessToken, "secret"))

	info, err := os.Stat(filepath.Join(dir, storage.KeyAccessToken+".json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMemStoreOverwrite(t *testing.T) {
	s := storage.NewMemStore()

	require.NoError(t, s.Set(storage.KeyPendingInvitation, "inv-1"))
	require.NoError(t, s.Set(storage.KeyPendingInvitation, "inv-2"))

	got, err := s.Get(storage.KeyPendingInvitation)
	require.NoError(t, err)
	require.Equal(t, "inv-2", got)
}

func TestSealedStoreRoundTrip(t *testing.T) {
	key, err := storage.NewSealingKey()
	require.NoError(t, err)

	inner := storage.NewMemStore()
	s, err := storage.NewSealedStore(inner, key)
	require.NoError(t, err)

	require.NoError(t, s.Set(storage.KeyAccessToken, "super-secret"))

	// The inner store must hold ciphertext, not the plaintext token.
	raw, err := inner.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	require.NotEqual(t, "super-secret", raw)
	require.NotContains(t, raw, "super-secret")

	got, err := s.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "super-secret", got)
}

func TestSealedStoreRejectsBadKeySize(t *testing.T) {
	_, err := storage.NewSealedStore(storage.NewMemStore(), []byte("short"))
	require.Error(t, err)
}

func TestSealedStoreTamperDetected(t *testing.T) {
	key, err := storage.NewSealingKey()
	require.NoError(t, err)

	inner := storage.NewMemStore()
	s, err := storage.NewSealedStore(inner, key)
	require.NoError(t, err)

	require.NoError(t, s.Set(storage.KeyRefreshToken, "rt"))

	// Sealing binds the ciphertext to its key; moving it breaks the seal.
	moved, err := inner.Get(storage.KeyRefreshToken)
	require.NoError(t, err)
	require.NoError(t, inner.Set(storage.KeyAccessToken, moved))

	_, err = s.Get(storage.KeyAccessToken)
	require.Error(t, err)
}
