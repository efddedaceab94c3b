package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore is the single persisted holder of the session credential.
// Every authenticated call reads it immediately before sending, so a logout
// or rotation takes effect on the next request.
type TokenStore interface {
	// Get returns the current credential, or false when absent or expired.
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// defaultTokenTTL is assumed when the credential carries no exp claim.
const defaultTokenTTL = 24 * time.Hour

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileTokenStore persists the credential as a JSON file in the user config
// dir. It survives process restarts but not device changes.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", false
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", false
	}
	return tf.AccessToken, true
}

func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tf := tokenFile{AccessToken: token, ExpiresAt: tokenExpiry(token)}
	b, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// tokenExpiry reads the exp claim without validating the signature; the
// client has no key material and validity is the server's concern.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(defaultTokenTTL)
}

// MemoryTokenStore keeps the credential in process memory. Used by tests and
// ephemeral runs.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
