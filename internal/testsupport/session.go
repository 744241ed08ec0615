package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"intervox/internal/session"
)

// MustManager opens a session manager backed by a per-test state file.
func MustManager(t testing.TB) *session.Manager {
	t.Helper()

	mgr, err := session.NewManager(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("session.NewManager: %v", err)
	}
	return mgr
}

// MustLoggedInManager opens a session manager pre-loaded with credentials.
func MustLoggedInManager(t testing.TB, token, userID string) *session.Manager {
	t.Helper()

	mgr := MustManager(t)
	if err := mgr.Login(token, userID, time.Time{}); err != nil {
		t.Fatalf("session login: %v", err)
	}
	return mgr
}
