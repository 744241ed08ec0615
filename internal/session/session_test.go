package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr, path
}

func TestCredentialsWithoutLogin(t *testing.T) {
	mgr, _ := newTestManager(t)
	if _, err := mgr.Credentials(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	mgr, path := newTestManager(t)
	if err := mgr.Login("tok-1", "user-1", time.Time{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	creds, err := mgr.Credentials(context.Background())
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if creds.Token != "tok-1" || creds.UserID != "user-1" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}

	// A second manager over the same file sees the login.
	again, err := NewManager(path)
	if err != nil {
		t.Fatalf("reopen manager: %v", err)
	}
	creds, err = again.Credentials(context.Background())
	if err != nil {
		t.Fatalf("credentials after reopen: %v", err)
	}
	if creds.UserID != "user-1" {
		t.Fatalf("state not persisted: %+v", creds)
	}
}

func TestExpiredTokenIsNotServed(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.Login("tok-1", "user-1", time.Now().Add(10*time.Second)); err != nil {
		t.Fatalf("login: %v", err)
	}
	// Expiry is inside the leeway window, so the token is treated as stale.
	if _, err := mgr.Credentials(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for near-expiry token, got %v", err)
	}
}

func TestLogoutKeepsClientIdentifier(t *testing.T) {
	mgr, _ := newTestManager(t)
	id := mgr.ClientID()
	if id == "" {
		t.Fatal("client identifier should be assigned on first load")
	}
	if err := mgr.Login("tok-1", "user-1", time.Time{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := mgr.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := mgr.Credentials(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}
	if mgr.ClientID() != id {
		t.Fatal("logout must not rotate the client identifier")
	}
}

func TestCredentialsReloadSeesExternalLogin(t *testing.T) {
	mgr, path := newTestManager(t)

	// Another process writes a login into the shared state file.
	external := map[string]string{
		"client_identifier": mgr.ClientID(),
		"token":             "tok-ext",
		"user_id":           "user-ext",
	}
	data, err := json.Marshal(external)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write state: %v", err)
	}

	creds, err := mgr.Credentials(context.Background())
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if creds.Token != "tok-ext" {
		t.Fatalf("external login not picked up: %+v", creds)
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("tok", "user")
	creds, err := p.Credentials(context.Background())
	if err != nil {
		t.Fatalf("static credentials: %v", err)
	}
	if creds.Token != "tok" {
		t.Fatalf("unexpected creds: %+v", creds)
	}

	empty := Static{}
	if _, err := empty.Credentials(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated from empty static provider, got %v", err)
	}
}
