package storage

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// SealedStore wraps another Store and seals values at rest with
// XChaCha20-Poly1305. Keys pass through in the clear; only values are sealed,
// so the well-known credential keys stay discoverable while the tokens behind
// them are opaque ciphertext on disk.
type SealedStore struct {
	inner Store
	key   []byte
}

var _ Store = (*SealedStore)(nil)

// NewSealedStore wraps inner with value sealing under the given 32-byte key.
func NewSealedStore(inner Store, key []byte) (*SealedStore, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Errorf("[NewSealedStore] key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &SealedStore{inner: inner, key: key}, nil
}

// NewSealingKey generates a fresh random sealing key.
func NewSealingKey() ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "[NewSealingKey] read random")
	}
	return key, nil
}

func (s *SealedStore) Get(key string) (string, error) {
	sealed, err := s.inner.Get(key)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrapf(err, "[SealedStore.Get] decode %q", key)
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", errors.Wrap(err, "[SealedStore.Get] init cipher")
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.Errorf("[SealedStore.Get] sealed value for %q too short", key)
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", errors.Wrapf(err, "[SealedStore.Get] open %q", key)
	}
	return string(plaintext), nil
}

func (s *SealedStore) Set(key, value string) error {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return errors.Wrap(err, "[SealedStore.Set] init cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[SealedStore.Set] read nonce")
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.inner.Set(key, base64.StdEncoding.EncodeToString(sealed))
}

func (s *SealedStore) Delete(key string) error {
	return s.inner.Delete(key)
}
