package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celerix-dev/celerix-keystore/internal/engine"
	"github.com/celerix-dev/celerix-keystore/internal/platform/memstore"
	"github.com/celerix-dev/celerix-keystore/internal/prefs"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
	"github.com/celerix-dev/celerix-keystore/pkg/schema"
)

func newManager() *Manager {
	return NewManager(prefs.New(prefs.NewMemoryBackend()), engine.New(memstore.New()))
}

func TestManager_Preferences(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	require.NoError(t, m.SavePreference(ctx, "onboarded", true))
	var onboarded bool
	ok, err := m.ReadPreference(ctx, "onboarded", &onboarded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, onboarded)

	require.NoError(t, UpdatePreference(ctx, m, "launches", func(cur *int) *int {
		n := 1
		return &n
	}))

	require.NoError(t, m.DeletePreference(ctx, "onboarded"))
	ok, err = m.ReadPreference(ctx, "onboarded", &onboarded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_Secrets(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	require.NoError(t, m.SaveSecret(ctx, string(keychain.KeyAppSettings), schema.DefaultSettings(), false))
	assert.True(t, m.ContainsSecret(ctx, string(keychain.KeyAppSettings)))

	var s schema.Settings
	ok, err := m.ReadSecret(ctx, string(keychain.KeyAppSettings), "", &s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schema.DefaultSettings(), s)

	require.NoError(t, UpdateSecret(ctx, m, string(keychain.KeyAppSettings), func(cur *schema.Settings) *schema.Settings {
		cur.Theme = "dark"
		return cur
	}))
	ok, err = m.ReadSecret(ctx, string(keychain.KeyAppSettings), "", &s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", s.Theme)

	require.NoError(t, m.DeleteSecret(ctx, string(keychain.KeyAppSettings)))
	assert.False(t, m.ContainsSecret(ctx, string(keychain.KeyAppSettings)))

	require.NoError(t, m.SaveSecret(ctx, string(keychain.KeyAuthToken), "t", false))
	m.ClearSecrets(ctx)
	assert.False(t, m.ContainsSecret(ctx, string(keychain.KeyAuthToken)))
}

func TestManager_StoresAreSeparate(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	require.NoError(t, m.SavePreference(ctx, "authToken", "plain"))
	assert.False(t, m.ContainsSecret(ctx, "authToken"))
}
