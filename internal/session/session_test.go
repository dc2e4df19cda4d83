package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{"user_id": 42, "role": "user", "exp": exp.Unix()})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "user", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestParseClaims_PrefersSubject(t *testing.T) {
	claims, err := ParseClaims(signed(t, jwt.MapClaims{"sub": "abc", "user_id": 1}))
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Subject)
	assert.False(t, claims.Expired(time.Now()), "no exp means no expiry")
}

func TestParseClaims_RejectsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vapor", "session.toml")
	token := signed(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})

	s := NewStore(path, nil)
	require.NoError(t, s.Load(), "missing file is not an error")
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.Save(token, "ana@example.com"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := NewStore(path, nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, token, reloaded.Token())
	assert.Equal(t, "ana@example.com", reloaded.Email())
	claims, err := reloaded.Claims()
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)

	require.NoError(t, reloaded.Clear())
	assert.False(t, reloaded.LoggedIn())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, reloaded.Clear(), "clearing twice is fine")

	_, err = reloaded.Claims()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_ExpiredTokenIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s := NewStore(path, nil)
	require.NoError(t, s.Save(signed(t, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}), ""))
	assert.True(t, s.LoggedIn())

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())
}

func TestStore_OpaqueTokenPassesThrough(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.toml"), nil)
	require.NoError(t, s.Save("opaque-token", ""))
	assert.Equal(t, "opaque-token", s.Token())
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.toml"), nil)
	assert.Error(t, s.Save("  ", "x@example.com"))
}

func TestStore_LoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("token = ["), 0o600))
	assert.Error(t, NewStore(path, nil).Load())
}
