package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

type failingFactory struct{}

func (failingFactory) NewAccessControl(keychain.Accessibility, keychain.AccessControlFlags) (*keychain.AccessControl, error) {
	return nil, ErrBiometryUnavailable
}

func TestApply_Standard(t *testing.T) {
	p := New(nil)
	q := keychain.Query{Account: "authToken", AccessControl: &keychain.AccessControl{Flags: keychain.FlagBiometryAny}}

	p.Apply(&q, false)

	assert.Equal(t, keychain.AccessibleWhenUnlockedThisDeviceOnly, q.Accessible)
	assert.Nil(t, q.AccessControl)
}

func TestApply_ChallengeReplacesAccessibility(t *testing.T) {
	p := New(StaticFactory{})
	q := keychain.Query{Account: "biometricData"}

	p.Apply(&q, true)

	assert.Empty(t, q.Accessible)
	require.NotNil(t, q.AccessControl)
	assert.Equal(t, keychain.AccessibleWhenUnlockedThisDeviceOnly, q.AccessControl.Accessible)
	assert.Equal(t, keychain.FlagBiometryAny, q.AccessControl.Flags)
	assert.True(t, q.AccessControl.RequiresChallenge())
}

func TestApply_FallsBackWhenDescriptorFails(t *testing.T) {
	fallbacks := 0
	p := New(failingFactory{}, WithFallbackHook(func() { fallbacks++ }))
	q := keychain.Query{Account: "biometricData"}

	p.Apply(&q, true)

	assert.Equal(t, keychain.AccessibleWhenUnlockedThisDeviceOnly, q.Accessible)
	assert.Nil(t, q.AccessControl)
	assert.Equal(t, 1, fallbacks)
}
