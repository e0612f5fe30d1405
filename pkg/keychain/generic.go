package keychain

import (
	"context"
	"log/slog"
)

// --- Generics Support ---

// Save stores a type-safe value.
func Save[T any](ctx context.Context, s SecureStore, key string, val T, requireChallenge bool) error {
	return s.Save(ctx, key, val, requireChallenge)
}

// Read retrieves a type-safe value. The zero value and false are returned
// when nothing is stored or the challenge was declined.
func Read[T any](ctx context.Context, s SecureStore, key, prompt string) (T, bool, error) {
	var target T
	found, err := s.Read(ctx, key, prompt, &target)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return target, true, nil
}

// Update atomically replaces the value at key with fn(current). current is
// nil when the key is absent or its payload no longer decodes as T; a nil
// result deletes the key.
func Update[T any](ctx context.Context, s SecureStore, key string, fn func(current *T) *T) error {
	return s.AtomicUpdate(ctx, key, func(cur Current) (any, error) {
		var current *T
		if cur.Found() {
			v := new(T)
			if err := cur.Decode(v); err == nil {
				current = v
			}
		}
		next := fn(current)
		if next == nil {
			return nil, nil
		}
		return *next, nil
	})
}

// --- Bound entries ---

// Stored binds a registry key to a store so call sites read and write it like
// a field. Failures are logged rather than returned.
type Stored[T any] struct {
	store SecureStore
	key   Key
	log   *slog.Logger
}

// Bind returns a Stored accessor for key.
func Bind[T any](s SecureStore, key Key, logger *slog.Logger) Stored[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return Stored[T]{store: s, key: key, log: logger}
}

// Get returns the stored value, or false when absent or unreadable.
func (b Stored[T]) Get(ctx context.Context) (T, bool) {
	v, ok, err := Read[T](ctx, b.store, string(b.key), "")
	if err != nil {
		b.log.Warn("keychain read failed", "key", b.key, "error", err)
	}
	return v, ok
}

// Set stores *val, or deletes the key when val is nil.
func (b Stored[T]) Set(ctx context.Context, val *T) {
	var err error
	if val == nil {
		err = b.store.Delete(ctx, string(b.key))
	} else {
		err = b.store.Save(ctx, string(b.key), *val, false)
	}
	if err != nil {
		b.log.Error("keychain write failed", "key", b.key, "error", err)
	}
}

// StoredString is a Stored[string] that reads as "" when absent.
type StoredString struct {
	Stored[string]
}

// BindString returns a StoredString accessor for key.
func BindString(s SecureStore, key Key, logger *slog.Logger) StoredString {
	return StoredString{Stored: Bind[string](s, key, logger)}
}

// Value returns the stored string or "".
func (b StoredString) Value(ctx context.Context) string {
	v, _ := b.Get(ctx)
	return v
}

// SetValue stores v.
func (b StoredString) SetValue(ctx context.Context, v string) {
	b.Set(ctx, &v)
}
