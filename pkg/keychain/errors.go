package keychain

import (
	"errors"
	"fmt"
)

// Kind is the closed category of a secure store failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindDuplicate       Kind = "duplicate"
	KindEncodingFailure Kind = "encoding_failure"
	KindDecodingFailure Kind = "decoding_failure"
	KindUnexpected      Kind = "unexpected"
)

// Error is the typed failure surfaced by SecureStore operations.
// Status carries the original platform code when the failure came from the
// item store; it is zero for codec failures.
type Error struct {
	Kind   Kind
	Status Status
	Err    error
}

var (
	// ErrNotFound matches any error of kind KindNotFound.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrDuplicate matches any error of kind KindDuplicate.
	ErrDuplicate = &Error{Kind: KindDuplicate}
	// ErrEncodingFailure matches any error of kind KindEncodingFailure.
	ErrEncodingFailure = &Error{Kind: KindEncodingFailure}
	// ErrDecodingFailure matches any error of kind KindDecodingFailure.
	ErrDecodingFailure = &Error{Kind: KindDecodingFailure}
	// ErrUnexpected matches any error of kind KindUnexpected regardless of status.
	ErrUnexpected = &Error{Kind: KindUnexpected}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "keychain item not found"
	case KindDuplicate:
		return "duplicate keychain item"
	case KindEncodingFailure:
		if e.Err != nil {
			return fmt.Sprintf("keychain encoding failed: %v", e.Err)
		}
		return "keychain encoding failed"
	case KindDecodingFailure:
		if e.Err != nil {
			return fmt.Sprintf("keychain decoding failed: %v", e.Err)
		}
		return "keychain decoding failed"
	default:
		return fmt.Sprintf("keychain error: %d", int32(e.Status))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by kind so callers can write errors.Is(err, keychain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// FromStatus maps a non-success platform status to the error taxonomy.
func FromStatus(status Status) error {
	switch status {
	case StatusItemNotFound:
		return &Error{Kind: KindNotFound, Status: status}
	case StatusDuplicateItem:
		return &Error{Kind: KindDuplicate, Status: status}
	default:
		return &Error{Kind: KindUnexpected, Status: status}
	}
}

// EncodingError wraps a codec failure raised while serializing a value.
func EncodingError(err error) error {
	return &Error{Kind: KindEncodingFailure, Err: err}
}

// DecodingError wraps a codec failure raised while deserializing a payload.
func DecodingError(err error) error {
	return &Error{Kind: KindDecodingFailure, Err: err}
}

// StatusOf extracts the platform status carried by err, if any.
func StatusOf(err error) (Status, bool) {
	var e *Error
	if errors.As(err, &e) && e.Status != StatusSuccess {
		return e.Status, true
	}
	return StatusSuccess, false
}
