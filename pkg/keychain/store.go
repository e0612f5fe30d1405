package keychain

import "context"

// SecureStore is the contract of the secure store engine. Every operation is
// a critical section of the implementing instance.
//
// Read may block on a credential challenge for gated entries; call it off any
// goroutine that must stay responsive. A declined challenge is reported
// exactly like an absent entry, so found == false does not prove absence when
// the entry was saved with requireChallenge.
type SecureStore interface {
	// Save replaces any record at key with value. requireChallenge gates
	// future reads behind a biometric or passcode challenge.
	Save(ctx context.Context, key string, value any, requireChallenge bool) error
	// Read decodes the record at key into dst.
	Read(ctx context.Context, key, prompt string, dst any) (found bool, err error)
	// Delete removes the record at key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
	// Contains reports presence without reading the payload or prompting.
	Contains(ctx context.Context, key string) bool
	// ClearAll deletes every registry key, ignoring per-key failures.
	ClearAll(ctx context.Context)
	// AtomicUpdate runs fn between a read and a write that no other operation
	// on the same instance can interleave with. fn must not call back into
	// the store.
	AtomicUpdate(ctx context.Context, key string, fn UpdateFunc) error
}

// Current is the value held at a key when an AtomicUpdate runs.
type Current interface {
	// Found reports whether a record existed.
	Found() bool
	// Decode decodes the record into dst.
	Decode(dst any) error
}

// UpdateFunc computes the next value from the current one. Returning a nil
// next deletes the key; returning an error aborts without writing.
type UpdateFunc func(current Current) (next any, err error)
