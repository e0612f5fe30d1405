// Package codec serializes secure entries and preferences to byte payloads.
package codec

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrEncode is returned when a value cannot be serialized.
	ErrEncode = errors.New("codec: encode failed")
	// ErrDecode is returned when a payload does not match the target shape.
	ErrDecode = errors.New("codec: decode failed")
)

// Codec converts values to payloads and back. Implementations are stateless
// and safe for concurrent use.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, dst any) error
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName resolves a configured codec name.
func ByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return CBOR{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// IsNil reports whether v carries no value: an untyped nil or a nil pointer,
// map, slice, interface, func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
