package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celerix-dev/celerix-keystore/internal/platform/memstore"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	const scope = "com.celerix.migrate"

	src := memstore.New()
	dst := memstore.New()
	from := New(src, WithScope(scope))

	require.NoError(t, from.Save(ctx, "authToken", "tok", false))
	require.NoError(t, from.Save(ctx, "biometricData", "secret", true))
	require.NoError(t, from.Save(ctx, "ad-hoc", 42, false))

	// Pre-existing destination records are replaced.
	to := New(dst, WithScope(scope))
	require.NoError(t, to.Save(ctx, "authToken", "stale", false))

	n, err := Migrate(ctx, src, dst, scope, []string{"authToken", "biometricData", "refreshToken"}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, found, err := keychain.Read[string](ctx, to, "authToken", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok", got)

	item, ok := dst.Item(scope, "biometricData")
	require.True(t, ok)
	assert.True(t, item.Gated(), "gated records keep their descriptor")

	assert.False(t, to.Contains(ctx, "ad-hoc"), "only the listed keys move")
}

func TestMigrate_SkipsDeclined(t *testing.T) {
	ctx := context.Background()
	const scope = "com.celerix.migrate"

	src := memstore.New(memstore.WithAuthenticator(keychain.AuthenticatorFunc(
		func(context.Context, string, keychain.AccessControlFlags) error {
			return keychain.ErrChallengeDeclined
		})))
	dst := memstore.New()

	from := New(src, WithScope(scope))
	require.NoError(t, from.Save(ctx, "biometricData", "secret", true))
	require.NoError(t, from.Save(ctx, "appLanguage", "en", false))

	n, err := Migrate(ctx, src, dst, scope, keychain.RegisteredNames(), "Move secrets")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := dst.Item(scope, "biometricData")
	assert.False(t, ok)
}
