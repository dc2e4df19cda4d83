// Package session persists the API bearer token between runs.
//
// The token lives in a TOML file readable only by the owner. Claims are decoded
// without verification: the client cannot check the signature and only needs
// the expiry to decide whether to show the login screen.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrNoSession reports that no usable token is stored.
var ErrNoSession = errors.New("not logged in")

type file struct {
	Token   string    `toml:"token"`
	Email   string    `toml:"email"`
	SavedAt time.Time `toml:"saved_at"`
}

// Claims is the subset of token claims the client cares about.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token expired before now. Tokens without an
// expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token without checking its signature.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	var claims Claims
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		claims.Subject = sub
	} else if id, ok := mc["user_id"]; ok {
		claims.Subject = fmt.Sprint(id)
	} else if id, ok := mc["id"]; ok {
		claims.Subject = fmt.Sprint(id)
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("parse token expiry: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Store is the on-disk session. It is safe for concurrent use.
type Store struct {
	path   string
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	data file
}

// NewStore returns a store backed by path. Call Load to read an existing session.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger, now: time.Now}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file. A missing file leaves the store logged out.
func (s *Store) Load() error {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var data file
	if err := toml.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("parse session: %w", err)
	}
	data.Token = strings.TrimSpace(data.Token)

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Save stores token for email and writes it to disk.
func (s *Store) Save(token, email string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	data := file{Token: token, Email: strings.TrimSpace(email), SavedAt: s.now().UTC()}

	bytes, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	s.logger.Info("session saved", zap.String("email", data.Email))
	return nil
}

// Clear forgets the token and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.data.Token != ""
	s.data = file{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	if had {
		s.logger.Info("session cleared")
	}
	return nil
}

// Token returns the stored token, or "" when none is stored or it has expired.
func (s *Store) Token() string {
	s.mu.RLock()
	token := s.data.Token
	s.mu.RUnlock()

	if token == "" {
		return ""
	}
	claims, err := ParseClaims(token)
	if err != nil {
		// Opaque tokens are passed through; the server decides.
		return token
	}
	if claims.Expired(s.now()) {
		return ""
	}
	return token
}

// Email returns the address the session was created for.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Email
}

// LoggedIn reports whether a usable token is stored.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// Claims returns the decoded claims of the current token.
func (s *Store) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoSession
	}
	return ParseClaims(token)
}
