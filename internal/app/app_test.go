package app

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/five82/vapor/internal/session"
	"github.com/five82/vapor/internal/vapor"
)

func TestAccountSessions(t *testing.T) {
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.toml"), zap.NewNop())
	client, err := vapor.NewClient("http://api.test", vapor.Options{Tokens: sessions})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rt := &Runtime{Sessions: sessions, Client: client}
	account := rt.Account()

	if err := account.Save("opaque-token", "ana@example.com"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !account.LoggedIn() || account.Email() != "ana@example.com" {
		t.Fatalf("after Save: logged in %v, email %q", account.LoggedIn(), account.Email())
	}

	if err := account.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if account.LoggedIn() || sessions.LoggedIn() {
		t.Fatal("Clear should log out the underlying store")
	}
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VAPOR_LOG_FILE", filepath.Join(dir, "vapor.log"))
	t.Setenv("VAPOR_SESSION_FILE", filepath.Join(dir, "session.toml"))
	t.Setenv("VAPOR_PREFS_FILE", filepath.Join(dir, "prefs.toml"))

	rt, err := Bootstrap(Options{ConfigPath: filepath.Join(dir, "missing.toml"), APIURL: "http://override.test/api"})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer rt.Close()

	if got := rt.Client.BaseURL(); got != "http://override.test/api" {
		t.Fatalf("BaseURL = %q, want override", got)
	}
	if rt.Sessions.LoggedIn() {
		t.Fatal("fresh session store should be logged out")
	}
}
