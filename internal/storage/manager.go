// Package storage composes the preferences store and the secure store behind
// one handle.
package storage

import (
	"context"

	"github.com/celerix-dev/celerix-keystore/internal/prefs"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// Manager forwards to its two stores; it adds no behavior of its own.
type Manager struct {
	Prefs    *prefs.Store
	Keychain keychain.SecureStore
}

// NewManager returns a Manager over p and k.
func NewManager(p *prefs.Store, k keychain.SecureStore) *Manager {
	return &Manager{Prefs: p, Keychain: k}
}

// --- Preferences ---

func (m *Manager) SavePreference(ctx context.Context, key string, value any) error {
	return m.Prefs.Save(ctx, key, value)
}

func (m *Manager) ReadPreference(ctx context.Context, key string, dst any) (bool, error) {
	return m.Prefs.Read(ctx, key, dst)
}

func (m *Manager) DeletePreference(ctx context.Context, key string) error {
	return m.Prefs.Delete(ctx, key)
}

// UpdatePreference is prefs.Update on the manager's preferences store.
func UpdatePreference[T any](ctx context.Context, m *Manager, key string, fn func(current *T) *T) error {
	return prefs.Update(ctx, m.Prefs, key, fn)
}

// --- Secrets ---

func (m *Manager) SaveSecret(ctx context.Context, key string, value any, requireChallenge bool) error {
	return m.Keychain.Save(ctx, key, value, requireChallenge)
}

func (m *Manager) ReadSecret(ctx context.Context, key, prompt string, dst any) (bool, error) {
	return m.Keychain.Read(ctx, key, prompt, dst)
}

func (m *Manager) DeleteSecret(ctx context.Context, key string) error {
	return m.Keychain.Delete(ctx, key)
}

func (m *Manager) ContainsSecret(ctx context.Context, key string) bool {
	return m.Keychain.Contains(ctx, key)
}

func (m *Manager) ClearSecrets(ctx context.Context) {
	m.Keychain.ClearAll(ctx)
}

// UpdateSecret is keychain.Update on the manager's secure store.
func UpdateSecret[T any](ctx context.Context, m *Manager, key string, fn func(current *T) *T) error {
	return keychain.Update(ctx, m.Keychain, key, fn)
}
