// Package prefs is the plain (non-secret) preferences store: values are
// encoded with a codec and kept in a swappable backend.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/celerix-dev/celerix-keystore/internal/codec"
)

var (
	// ErrEmptyKey is returned for an empty preference key.
	ErrEmptyKey = errors.New("prefs: empty key")
	// ErrNilUpdate is returned by Update when fn is nil.
	ErrNilUpdate = errors.New("prefs: nil update function")
)

// Backend stores raw preference payloads.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Store serializes every operation, so Update is atomic with respect to
// other calls on the same Store.
type Store struct {
	mu      sync.Mutex
	backend Backend
	codec   codec.Codec
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the payload codec. JSON is used otherwise.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, codec: codec.Default, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores value at key, replacing any previous value.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("prefs: save %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Put(ctx, key, data)
}

// Read decodes the value at key into dst. It reports false when nothing is
// stored.
func (s *Store) Read(ctx context.Context, key string, dst any) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	s.mu.Lock()
	data, ok, err := s.backend.Get(ctx, key)
	s.mu.Unlock()
	if err != nil || !ok {
		return false, err
	}
	if err := s.codec.Decode(data, dst); err != nil {
		return false, fmt.Errorf("prefs: read %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Remove(ctx, key)
}

// Keys lists stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	keys, err := s.backend.Keys(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// update runs fn on the raw current payload under the store lock.
func (s *Store) update(ctx context.Context, key string, fn func(data []byte, found bool) (any, error)) error {
	if key == "" {
		return ErrEmptyKey
	}
	if fn == nil {
		return ErrNilUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(data, found)
	if err != nil {
		return err
	}
	if codec.IsNil(next) {
		return s.backend.Remove(ctx, key)
	}
	encoded, err := s.codec.Encode(next)
	if err != nil {
		return fmt.Errorf("prefs: update %s: %w", key, err)
	}
	return s.backend.Put(ctx, key, encoded)
}

// Update atomically replaces the value at key with fn(current). current is
// nil when the key is absent or no longer decodes as T; a nil result deletes
// the key.
func Update[T any](ctx context.Context, s *Store, key string, fn func(current *T) *T) error {
	return s.update(ctx, key, func(data []byte, found bool) (any, error) {
		var current *T
		if found {
			v := new(T)
			if err := s.codec.Decode(data, v); err == nil {
				current = v
			} else {
				s.log.Debug("prefs: discarding undecodable value", "key", key, "error", err)
			}
		}
		next := fn(current)
		if next == nil {
			return nil, nil
		}
		return *next, nil
	})
}

// Get is a typed Read.
func Get[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var v T
	ok, err := s.Read(ctx, key, &v)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}
