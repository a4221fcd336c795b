// Package session owns authentication state: login, durable persistence,
// expiry, and the forced-logout path taken when the backend answers 401.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// loginResponse is the /auth/login payload. ExpiresIn is a duration in
// milliseconds from which the absolute expiry is derived at login time.
type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        *models.User `json:"user,omitempty"`
}

// Manager is the single writer of the client's bearer token. It rehydrates
// a persisted session on construction, schedules the auto-logout timer, and
// registers itself as the client's unauthorized handler.
type Manager struct {
	client *api.Client
	store  Store
	now    func() time.Time

	mu       sync.Mutex
	state    *State
	timer    *time.Timer
	onLogout func()
	closed   bool
}

// NewManager wires a session manager to the given client and store. Any
// persisted session that is already expired is purged immediately and the
// manager starts logged out.
func NewManager(client *api.Client, store Store) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		now:    time.Now,
	}
	client.SetUnauthorizedHandler(m.forceLogout)
	m.rehydrate()
	return m
}

// SetLogoutListener installs a callback fired after every logout, whether
// user-initiated, timer-driven, or forced by a 401. Used by the console to
// drop back to the login prompt.
func (m *Manager) SetLogoutListener(fn func()) {
	m.mu.Lock()
	m.onLogout = fn
	m.mu.Unlock()
}

func (m *Manager) rehydrate() {
	state, err := m.store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load persisted session")
		return
	}
	if state == nil {
		return
	}
	if state.Expired(m.now()) {
		log.Info().Msg("Persisted session expired, purging")
		if err := m.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("Failed to purge expired session")
		}
		return
	}
	m.mu.Lock()
	m.state = state
	m.armTimerLocked()
	m.mu.Unlock()
	m.client.SetToken(state.AccessToken)
	log.Info().Time("expires_at", state.ExpiresAt).Msg("Session rehydrated")
}

// Authenticate logs in with the backend and installs the resulting session:
// token on the client, state in the store, expiry timer armed.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*State, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	raw, err := m.client.Post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	resp, err := api.DecodeOne[loginResponse](raw)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}

	claims, err := DecodeTokenClaims(resp.AccessToken)
	if err != nil {
		// An opaque non-JWT token still authenticates; it just grants no
		// decoded permissions.
		log.Warn().Err(err).Msg("Access token claims not decodable")
		claims = &Claims{}
	}

	state := &State{
		AccessToken: resp.AccessToken,
		User:        resp.User,
		Claims:      claims,
	}
	if resp.ExpiresIn > 0 {
		state.ExpiresAt = m.now().Add(time.Duration(resp.ExpiresIn) * time.Millisecond)
	}

	m.mu.Lock()
	m.state = state
	m.armTimerLocked()
	m.mu.Unlock()

	m.client.SetToken(state.AccessToken)
	if err := m.store.Save(state); err != nil {
		log.Warn().Err(err).Msg("Failed to persist session")
	}

	log.Info().
		Str("role", claims.Role).
		Int("permissions", len(claims.Permissions)).
		Time("expires_at", state.ExpiresAt).
		Msg("Authenticated")
	return state, nil
}

// IsAuthenticated reports whether a live, unexpired session exists.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.Expired(m.now())
}

// Current returns the active session state, or nil when logged out.
func (m *Manager) Current() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Expired(m.now()) {
		return nil
	}
	return m.state
}

// CurrentUserID returns the authenticated user's id, or 0 when logged out.
func (m *Manager) CurrentUserID() int64 {
	state := m.Current()
	if state == nil || state.Claims == nil {
		return 0
	}
	return state.Claims.UID
}

// Permissions returns the granted permission set of the active session.
func (m *Manager) Permissions() []string {
	state := m.Current()
	if state == nil || state.Claims == nil {
		return nil
	}
	return state.Claims.Permissions
}

// HasPermission checks the active session for a capability.
func (m *Manager) HasPermission(perm string) bool {
	state := m.Current()
	if state == nil {
		return false
	}
	return state.Claims.HasPermission(perm)
}

// Logout tears the session down: store cleared, token cleared, timer
// cancelled. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	wasActive := m.state != nil
	m.state = nil
	m.stopTimerLocked()
	fn := m.onLogout
	m.mu.Unlock()

	m.client.ClearToken()
	if err := m.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear persisted session")
	}
	if wasActive {
		log.Info().Msg("Logged out")
		if fn != nil {
			fn()
		}
	}
}

// Close deregisters the unauthorized handler and cancels the expiry timer
// without discarding the persisted session.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopTimerLocked()
	m.mu.Unlock()
	m.client.SetUnauthorizedHandler(nil)
}

// forceLogout is the 401 path: identical to Logout but logged as such.
func (m *Manager) forceLogout() {
	log.Warn().Msg("Backend rejected credentials, forcing logout")
	m.Logout()
}

// armTimerLocked schedules the one-shot auto-logout for the current state,
// replacing any previously armed timer so re-login never double-fires.
func (m *Manager) armTimerLocked() {
	m.stopTimerLocked()
	if m.state == nil {
		return
	}
	remaining := m.state.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return
	}
	m.timer = time.AfterFunc(remaining, func() {
		log.Info().Msg("Session expired")
		m.Logout()
	})
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
