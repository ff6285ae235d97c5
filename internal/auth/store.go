package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TokenStore keeps session tokens between invocations in a 0600 JSON file,
// keyed by network and account. Expired entries are never returned.
type TokenStore struct {
	path string
	now  func() time.Time
}

type storedToken struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// NewTokenStore creates a store backed by path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path, now: time.Now}
}

// TokenKey builds the store key for an account on a network.
func TokenKey(network string, addr common.Address) string {
	return network + "/" + strings.ToLower(addr.Hex())
}

// Load returns the token stored under key if it has not expired.
func (s *TokenStore) Load(key string) (string, bool) {
	t, ok := s.read()[key]
	if !ok || t.Token == "" || !s.now().Before(t.Expires) {
		return "", false
	}
	return t.Token, true
}

// Save stores token under key until expires.
func (s *TokenStore) Save(key, token string, expires time.Time) error {
	m := s.read()
	m[key] = storedToken{Token: token, Expires: expires.UTC()}
	return s.write(m)
}

// Delete forgets the token under key.
func (s *TokenStore) Delete(key string) error {
	m := s.read()
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.write(m)
}

// read returns the stored map with expired entries dropped, never nil.
func (s *TokenStore) read() map[string]storedToken {
	m := make(map[string]storedToken)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]storedToken)
	}
	now := s.now()
	for k, t := range m {
		if !now.Before(t.Expires) {
			delete(m, k)
		}
	}
	return m
}

func (s *TokenStore) write(m map[string]storedToken) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	return os.Chmod(s.path, 0o600)
}
