package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotAuthenticated is returned when no usable credentials are stored.
var ErrNotAuthenticated = errors.New("not authenticated")

// expiryLeeway is how long before the stored expiry credentials stop being
// handed out, so in-flight requests do not race token expiration.
const expiryLeeway = time.Minute

// Credentials carry everything a component needs to call the backend.
type Credentials struct {
	Token  string
	UserID string
}

// Provider yields current credentials, possibly asynchronously and possibly
// unavailable. Implementations return ErrNotAuthenticated when no token is
// available; callers skip the operation rather than failing it.
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type state struct {
	ClientIdentifier string    `json:"client_identifier"`
	Token            string    `json:"token"`
	UserID           string    `json:"user_id"`
	TokenExpiresAt   time.Time `json:"token_expires_at,omitzero"`
}

// Store abstracts persistence for session state.
type Store interface {
	Load() (state, error)
	Save(state) error
}

// ManagerOption customises Manager construction.
type ManagerOption func(*Manager)

// WithStore injects a custom persistence layer.
func WithStore(store Store) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// Manager persists login state on disk and serves it as credentials. The
// state file may be shared by concurrent CLI invocations; reads fall back to
// a reload so a login in another process becomes visible.
type Manager struct {
	store Store

	stateMu sync.RWMutex
	state   state
}

// NewManager builds a Manager backed by the given state file path.
func NewManager(statePath string, opts ...ManagerOption) (*Manager, error) {
	mgr := &Manager{store: NewFileStore(statePath)}
	for _, opt := range opts {
		opt(mgr)
	}
	if err := mgr.loadInitialState(); err != nil {
		return nil, err
	}
	return mgr, nil
}

func (m *Manager) loadInitialState() error {
	loaded, err := m.store.Load()
	if err != nil {
		return err
	}
	dirty := false
	if loaded.ClientIdentifier == "" {
		loaded.ClientIdentifier = strings.ReplaceAll(uuid.New().String(), "-", "")
		dirty = true
	}
	m.state = loaded

	if dirty {
		if err := m.store.Save(m.state); err != nil {
			return err
		}
	}
	return nil
}

// Credentials returns the stored token and user id, reloading the state file
// once when nothing usable is cached.
func (m *Manager) Credentials(ctx context.Context) (Credentials, error) {
	if creds, ok := m.cached(); ok {
		return creds, nil
	}

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if creds, ok := usable(m.state); ok {
		return creds, nil
	}
	if err := m.reloadLocked(); err != nil {
		return Credentials{}, err
	}
	if creds, ok := usable(m.state); ok {
		return creds, nil
	}
	return Credentials{}, ErrNotAuthenticated
}

func (m *Manager) cached() (Credentials, bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return usable(m.state)
}

func usable(s state) (Credentials, bool) {
	if strings.TrimSpace(s.Token) == "" || strings.TrimSpace(s.UserID) == "" {
		return Credentials{}, false
	}
	if !s.TokenExpiresAt.IsZero() && time.Until(s.TokenExpiresAt) < expiryLeeway {
		return Credentials{}, false
	}
	return Credentials{Token: s.Token, UserID: s.UserID}, true
}

func (m *Manager) reloadLocked() error {
	loaded, err := m.store.Load()
	if err != nil {
		return err
	}
	if loaded.ClientIdentifier == "" {
		loaded.ClientIdentifier = m.state.ClientIdentifier
	}
	m.state = loaded
	return nil
}

// Login stores a bearer token and user id. A zero expiry means the token
// does not expire client-side.
func (m *Manager) Login(token, userID string, expiresAt time.Time) error {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	if token == "" {
		return errors.New("token is empty")
	}
	if userID == "" {
		return errors.New("user id is empty")
	}

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	updated := m.state
	updated.Token = token
	updated.UserID = userID
	updated.TokenExpiresAt = expiresAt

	if err := m.store.Save(updated); err != nil {
		return err
	}
	m.state = updated
	return nil
}

// Logout clears the stored credentials but keeps the client identifier.
func (m *Manager) Logout() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	updated := m.state
	updated.Token = ""
	updated.UserID = ""
	updated.TokenExpiresAt = time.Time{}

	if err := m.store.Save(updated); err != nil {
		return err
	}
	m.state = updated
	return nil
}

// ClientID returns the stable per-installation identifier.
func (m *Manager) ClientID() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state.ClientIdentifier
}

// UserID returns the stored user id even when the token has expired.
func (m *Manager) UserID() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state.UserID
}

// Static is a fixed-credential Provider used by tests and scripted callers.
type Static struct {
	Creds Credentials
	Err   error
}

// NewStatic builds a provider that always returns the given credentials.
func NewStatic(token, userID string) Static {
	return Static{Creds: Credentials{Token: token, UserID: userID}}
}

func (s Static) Credentials(context.Context) (Credentials, error) {
	if s.Err != nil {
		return Credentials{}, s.Err
	}
	if s.Creds.Token == "" || s.Creds.UserID == "" {
		return Credentials{}, ErrNotAuthenticated
	}
	return s.Creds, nil
}
