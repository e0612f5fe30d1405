// Package policy decides the access-control attributes attached to a secure
// entry at write time.
package policy

import (
	"errors"
	"log/slog"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// ErrBiometryUnavailable is returned by a DescriptorFactory when the device
// has no enrolled biometric factor.
var ErrBiometryUnavailable = errors.New("biometry not available")

// DescriptorFactory builds the platform access-control descriptor. Creation
// may fail, for example on hardware without a biometric sensor.
type DescriptorFactory interface {
	NewAccessControl(accessible keychain.Accessibility, flags keychain.AccessControlFlags) (*keychain.AccessControl, error)
}

// StaticFactory always succeeds. It fits backends that delegate the challenge
// to an Authenticator rather than to hardware.
type StaticFactory struct{}

func (StaticFactory) NewAccessControl(accessible keychain.Accessibility, flags keychain.AccessControlFlags) (*keychain.AccessControl, error) {
	return &keychain.AccessControl{Accessible: accessible, Flags: flags}, nil
}

// Policy augments queries with either the standard accessibility attribute or
// a challenge-demanding descriptor.
type Policy struct {
	factory  DescriptorFactory
	log      *slog.Logger
	fallback func()
}

// Option configures a Policy.
type Option func(*Policy)

// WithLogger sets the logger used to report descriptor fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(p *Policy) { p.log = l }
}

// WithFallbackHook registers a callback invoked each time a gated write
// degrades to the standard attribute.
func WithFallbackHook(fn func()) Option {
	return func(p *Policy) { p.fallback = fn }
}

// New returns a Policy backed by factory. A nil factory means StaticFactory.
func New(factory DescriptorFactory, opts ...Option) *Policy {
	if factory == nil {
		factory = StaticFactory{}
	}
	p := &Policy{factory: factory, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Standard is the accessibility every record gets unless it is gated.
const Standard = keychain.AccessibleWhenUnlockedThisDeviceOnly

// Apply sets the accessibility attributes of q for a write.
// When the descriptor cannot be built the write proceeds ungated.
func (p *Policy) Apply(q *keychain.Query, requireChallenge bool) {
	q.Accessible = Standard
	q.AccessControl = nil
	if !requireChallenge {
		return
	}

	ac, err := p.factory.NewAccessControl(Standard, keychain.FlagBiometryAny)
	if err != nil || ac == nil {
		p.log.Warn("access control unavailable, storing entry without challenge",
			"account", q.Account, "error", err)
		if p.fallback != nil {
			p.fallback()
		}
		return
	}

	q.Accessible = ""
	q.AccessControl = ac
}
