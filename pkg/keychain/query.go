package keychain

import (
	"context"
	"errors"
)

// ItemClass identifies the kind of item a query addresses.
type ItemClass string

// ClassGenericPassword is the only class the secure store writes.
const ClassGenericPassword ItemClass = "genp"

// Accessibility controls when an item's payload may be read.
type Accessibility string

const (
	// AccessibleWhenUnlockedThisDeviceOnly: readable while the device is
	// unlocked, never migrated to another device or backup.
	AccessibleWhenUnlockedThisDeviceOnly Accessibility = "ak-this-device-only"
	AccessibleWhenUnlocked               Accessibility = "ak"
)

// AccessControlFlags is the set of factors an access-control descriptor demands.
type AccessControlFlags uint32

const (
	FlagBiometryAny AccessControlFlags = 1 << iota
	FlagBiometryCurrentSet
	FlagDevicePasscode
)

// AccessControl is the platform descriptor attached to a gated item.
type AccessControl struct {
	Accessible Accessibility      `json:"accessible"`
	Flags      AccessControlFlags `json:"flags"`
}

// RequiresChallenge reports whether reading the payload needs a credential challenge.
func (ac *AccessControl) RequiresChallenge() bool {
	return ac != nil && ac.Flags != 0
}

// Query addresses a single record in the platform item store.
type Query struct {
	Class         ItemClass
	Service       string // scope identifier
	Account       string // entry key
	Accessible    Accessibility
	AccessControl *AccessControl
	ReturnData    bool
	MatchLimitOne bool
	// Prompt is the user-facing reason shown by a credential challenge.
	Prompt string
	// SkipAuthUI asks for an existence answer without surfacing any challenge.
	SkipAuthUI bool
}

// Item is a persisted record: (scope, key, payload, accessibility, descriptor).
type Item struct {
	Service       string         `json:"service"`
	Account       string         `json:"account"`
	Data          []byte         `json:"data"`
	Accessible    Accessibility  `json:"accessible,omitempty"`
	AccessControl *AccessControl `json:"access_control,omitempty"`
}

// Gated reports whether the item demands a credential challenge on read.
func (it *Item) Gated() bool {
	return it.AccessControl.RequiresChallenge()
}

// ItemStore is the platform secure item store capability. Implementations
// must be safe for concurrent use; they own durability, not exclusivity.
//
// An existence check is a CopyMatching call with ReturnData false and
// SkipAuthUI true; it must never invoke an Authenticator.
type ItemStore interface {
	Add(ctx context.Context, q Query, payload []byte) Status
	CopyMatching(ctx context.Context, q Query) ([]byte, Status)
	Delete(ctx context.Context, q Query) Status
}

// ErrChallengeDeclined is returned by an Authenticator when the user cancels
// the prompt. Item stores translate it to StatusUserCanceled.
var ErrChallengeDeclined = errors.New("credential challenge declined")

// Authenticator runs the biometric or passcode challenge guarding a gated item.
// It may block until the user responds.
type Authenticator interface {
	Authenticate(ctx context.Context, prompt string, flags AccessControlFlags) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, prompt string, flags AccessControlFlags) error

func (f AuthenticatorFunc) Authenticate(ctx context.Context, prompt string, flags AccessControlFlags) error {
	return f(ctx, prompt, flags)
}

// ChallengeStatus converts an Authenticator result into the status an item
// store reports for the read.
func ChallengeStatus(ctx context.Context, auth Authenticator, prompt string, flags AccessControlFlags) Status {
	if auth == nil {
		return StatusInteractionNotAllowed
	}
	err := auth.Authenticate(ctx, prompt, flags)
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrChallengeDeclined):
		return StatusUserCanceled
	default:
		return StatusAuthFailed
	}
}
