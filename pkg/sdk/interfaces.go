package sdk

import (
	"context"
	"errors"
	"io"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// ErrUnknownBackend is returned for a backend name Open cannot build.
var ErrUnknownBackend = errors.New("sdk: unknown backend")

// ErrClosed is returned by stores handed out after Root.Close.
var ErrClosed = errors.New("sdk: root is closed")

// Keychain is the secure store handed out per scope.
type Keychain interface {
	keychain.SecureStore
	Scope() string
}

// Backend is a platform item store opened from configuration. Close releases
// files or connections it holds.
type Backend interface {
	keychain.ItemStore
	io.Closer
}

// closedKeychain stands in for an engine once its backend is released.
type closedKeychain struct {
	scope string
}

func (k closedKeychain) Scope() string { return k.scope }

func (closedKeychain) Save(context.Context, string, any, bool) error { return ErrClosed }

func (closedKeychain) Read(context.Context, string, string, any) (bool, error) {
	return false, ErrClosed
}

func (closedKeychain) Delete(context.Context, string) error { return ErrClosed }

func (closedKeychain) Contains(context.Context, string) bool { return false }

func (closedKeychain) ClearAll(context.Context) {}

func (closedKeychain) AtomicUpdate(context.Context, string, keychain.UpdateFunc) error {
	return ErrClosed
}
