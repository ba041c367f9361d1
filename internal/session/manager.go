// Package session owns the bearer-token lifecycle that gates every
// catalog and watch-log operation.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jodu555/cinewatch/internal/state"
	"github.com/jodu555/cinewatch/internal/status"
	"github.com/jodu555/cinewatch/pkg/cinema"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/jodu555/cinewatch/internal/session API,Vault

// API is the subset of the cinema client the manager needs.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	AuthInfo(ctx context.Context, token string) (*cinema.AuthInfo, error)
}

// Vault is durable key-value storage for the persisted token.
type Vault interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Manager tracks the in-memory token and profile for one user session.
// Network failures never propagate as errors; they land in the shared
// status slot and leave the previous session state untouched.
type Manager struct {
	api    API
	vault  Vault
	status *status.Status
	log    *slog.Logger

	mu    sync.RWMutex
	token string
	info  cinema.AuthInfo
}

// NewManager creates a session manager. logger may be nil.
func NewManager(api API, vault Vault, st *status.Status, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:    api,
		vault:  vault,
		status: st,
		log:    logger.With("component", "session"),
	}
}

// Login exchanges credentials for a token and persists it. On failure the
// prior token (in memory and in the vault) is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) {
	m.status.Begin()
	defer m.status.Done()

	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.status.Fail("login failed: " + err.Error())
		m.log.Warn("login failed", "username", username, "error", err)
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if err := m.vault.Set(ctx, state.KeyAuthToken, token); err != nil {
		// The in-memory session is usable; only persistence failed.
		m.status.Fail("persist token: " + err.Error())
		m.log.Warn("failed to persist token", "error", err)
		return
	}

	m.log.Info("logged in", "username", username)
}

// RestoreAndAuthenticate loads any persisted token into memory, then
// fetches the profile with whatever token is now held (possibly empty).
// A failed profile fetch is expected when no valid token exists; it is
// recorded, not fatal, and leaves the session unauthenticated.
func (m *Manager) RestoreAndAuthenticate(ctx context.Context) {
	m.status.Begin()
	defer m.status.Done()

	if token, ok := m.vault.Get(ctx, state.KeyAuthToken); ok && token != "" {
		m.mu.Lock()
		m.token = token
		m.mu.Unlock()
		m.log.Debug("restored persisted token")
	}

	info, err := m.api.AuthInfo(ctx, m.Token())
	if err != nil {
		m.status.Fail("authenticate: " + err.Error())
		m.log.Debug("profile fetch failed", "error", err)
		return
	}

	m.mu.Lock()
	m.info = *info
	m.mu.Unlock()

	m.log.Info("authenticated", "username", info.Username)
}

// Logout clears the in-memory session and deletes the persisted token.
// Idempotent.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.info = cinema.AuthInfo{}
	m.mu.Unlock()

	if err := m.vault.Delete(ctx, state.KeyAuthToken); err != nil {
		m.status.Fail("delete persisted token: " + err.Error())
		m.log.Warn("failed to delete persisted token", "error", err)
		return
	}

	m.log.Info("logged out")
}

// Token returns the current bearer token; "" means unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Info returns the profile snapshot from the last successful
// authentication. Zero value when never authenticated.
func (m *Manager) Info() cinema.AuthInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}
