// Package memstore is an in-memory platform item store. It backs tests and
// embedded use where no hardware keystore is present.
package memstore

import (
	"context"
	"sync"

	"github.com/celerix-dev/celerix-keystore/internal/policy"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// MemStore is a thread-safe item store.
type MemStore struct {
	mu sync.RWMutex
	// Structure: [service][account]item
	data     map[string]map[string]keychain.Item
	auth     keychain.Authenticator
	biometry bool
}

// Option configures a MemStore.
type Option func(*MemStore)

// WithAuthenticator sets the challenge used for gated reads.
func WithAuthenticator(a keychain.Authenticator) Option {
	return func(m *MemStore) { m.auth = a }
}

// WithoutBiometry simulates a device with no enrolled biometric factor:
// descriptor creation fails and gated writes fall back to standard entries.
func WithoutBiometry() Option {
	return func(m *MemStore) { m.biometry = false }
}

// New initializes an empty store. Without WithAuthenticator every challenge
// is approved.
func New(opts ...Option) *MemStore {
	m := &MemStore{
		data:     make(map[string]map[string]keychain.Item),
		auth:     keychain.AuthenticatorFunc(func(context.Context, string, keychain.AccessControlFlags) error { return nil }),
		biometry: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --- ItemStore Implementation ---

func (m *MemStore) Add(_ context.Context, q keychain.Query, payload []byte) keychain.Status {
	if q.Service == "" || q.Account == "" {
		return keychain.StatusParam
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[q.Service] == nil {
		m.data[q.Service] = make(map[string]keychain.Item)
	}
	if _, exists := m.data[q.Service][q.Account]; exists {
		return keychain.StatusDuplicateItem
	}

	m.data[q.Service][q.Account] = keychain.Item{
		Service:       q.Service,
		Account:       q.Account,
		Data:          append([]byte(nil), payload...),
		Accessible:    q.Accessible,
		AccessControl: copyAccessControl(q.AccessControl),
	}
	return keychain.StatusSuccess
}

func (m *MemStore) CopyMatching(ctx context.Context, q keychain.Query) ([]byte, keychain.Status) {
	m.mu.RLock()
	item, ok := m.data[q.Service][q.Account]
	m.mu.RUnlock()

	if !ok {
		return nil, keychain.StatusItemNotFound
	}
	if !q.ReturnData {
		return nil, keychain.StatusSuccess
	}
	if item.Gated() {
		if q.SkipAuthUI {
			return nil, keychain.StatusInteractionNotAllowed
		}
		// The challenge runs outside the store lock; it may block on the user.
		if st := keychain.ChallengeStatus(ctx, m.auth, q.Prompt, item.AccessControl.Flags); st != keychain.StatusSuccess {
			return nil, st
		}
	}
	return append([]byte(nil), item.Data...), keychain.StatusSuccess
}

func (m *MemStore) Delete(_ context.Context, q keychain.Query) keychain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, ok := m.data[q.Service]
	if !ok {
		return keychain.StatusItemNotFound
	}
	if _, ok := items[q.Account]; !ok {
		return keychain.StatusItemNotFound
	}
	delete(items, q.Account)
	if len(items) == 0 {
		delete(m.data, q.Service)
	}
	return keychain.StatusSuccess
}

// --- DescriptorFactory Implementation ---

func (m *MemStore) NewAccessControl(accessible keychain.Accessibility, flags keychain.AccessControlFlags) (*keychain.AccessControl, error) {
	if !m.biometry {
		return nil, policy.ErrBiometryUnavailable
	}
	return &keychain.AccessControl{Accessible: accessible, Flags: flags}, nil
}

// --- Inspection ---

// Item returns a copy of the stored record, bypassing any challenge.
func (m *MemStore) Item(service, account string) (keychain.Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.data[service][account]
	if !ok {
		return keychain.Item{}, false
	}
	item.Data = append([]byte(nil), item.Data...)
	item.AccessControl = copyAccessControl(item.AccessControl)
	return item, true
}

// Accounts lists the keys stored under service.
func (m *MemStore) Accounts(service string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []string
	for account := range m.data[service] {
		list = append(list, account)
	}
	return list
}

// Close satisfies io.Closer; a MemStore holds no resources.
func (m *MemStore) Close() error { return nil }

func copyAccessControl(ac *keychain.AccessControl) *keychain.AccessControl {
	if ac == nil {
		return nil
	}
	c := *ac
	return &c
}
