// Package sdk is the composition root of the keystore: it turns a Config into
// the secure store, the preferences store and the member client.
//
// A Root hands out exactly one engine per scope. Two engines over the same
// scope would not exclude each other, so callers must go through Keychain.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/celerix-dev/celerix-keystore/internal/codec"
	"github.com/celerix-dev/celerix-keystore/internal/config"
	"github.com/celerix-dev/celerix-keystore/internal/engine"
	"github.com/celerix-dev/celerix-keystore/internal/members"
	"github.com/celerix-dev/celerix-keystore/internal/prefs"
	"github.com/celerix-dev/celerix-keystore/internal/storage"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// Root owns every store built from one configuration.
type Root struct {
	cfg     config.Config
	log     *slog.Logger
	codec   codec.Codec
	items   Backend
	prefs   *prefs.Store
	members members.Client
	closers []func() error

	mu      sync.Mutex
	engines map[string]*engine.Engine
	closed  bool
}

// Option configures Open.
type Option func(*options)

type options struct {
	log   *slog.Logger
	auth  keychain.Authenticator
	items Backend
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithAuthenticator sets the challenge used for gated reads.
func WithAuthenticator(a keychain.Authenticator) Option {
	return func(o *options) { o.auth = a }
}

// WithBackend uses b instead of the backend named in the configuration.
func WithBackend(b Backend) Option {
	return func(o *options) { o.items = b }
}

// Open validates cfg and builds the stores it describes.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Root, error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}

	r := &Root{
		cfg:     cfg,
		log:     o.log,
		codec:   c,
		engines: make(map[string]*engine.Engine),
	}

	// 1. Platform item store
	r.items = o.items
	if r.items == nil {
		if r.items, err = OpenBackend(cfg, cfg.Backend, o.auth, o.log); err != nil {
			return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
		}
	}
	r.closers = append(r.closers, r.items.Close)

	// 2. Preferences
	pb, closePrefs, err := openPrefs(ctx, cfg)
	if err != nil {
		r.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	if closePrefs != nil {
		r.closers = append(r.closers, closePrefs)
	}
	r.prefs = prefs.New(pb, prefs.WithCodec(c), prefs.WithLogger(o.log))

	// 3. Member table
	mc, closeMembers, err := openMembers(ctx, cfg, o.log)
	if err != nil {
		r.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("open members: %w", err)
	}
	if closeMembers != nil {
		r.closers = append(r.closers, closeMembers)
	}
	r.members = mc

	o.log.Info("keystore opened",
		"backend", cfg.Backend, "scope", cfg.Scope, "codec", c.Name(), "prefs", cfg.Prefs.Backend)
	return r, nil
}

// Config returns the configuration the root was opened with.
func (r *Root) Config() config.Config { return r.cfg }

// Keychain returns the engine for scope, creating it on first use. An empty
// scope means the configured one. After Close every operation of the
// returned store fails with ErrClosed.
func (r *Root) Keychain(scope string) Keychain {
	if scope == "" {
		scope = r.cfg.Scope
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return closedKeychain{scope: scope}
	}

	if e, ok := r.engines[scope]; ok {
		return e
	}
	e := engine.New(r.items,
		engine.WithScope(scope),
		engine.WithCodec(r.codec),
		engine.WithLogger(r.log))
	r.engines[scope] = e
	return e
}

// Scopes lists the scopes handed out so far.
func (r *Root) Scopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.engines))
	for s := range r.engines {
		out = append(out, s)
	}
	return out
}

// Manager returns a storage manager over the configured scope.
func (r *Root) Manager() *storage.Manager {
	return storage.NewManager(r.prefs, r.Keychain(""))
}

// Prefs returns the preferences store.
func (r *Root) Prefs() *prefs.Store { return r.prefs }

// Members returns the member table client.
func (r *Root) Members() members.Client { return r.members }

// ItemStore returns the platform item store engines are built on.
func (r *Root) ItemStore() keychain.ItemStore { return r.items }

// Close releases every backend. It is safe to call more than once.
func (r *Root) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
