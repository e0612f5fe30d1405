package filestore

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celerix-dev/celerix-keystore/internal/vault"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

const scope = "com.celerix.test"

func query(account string) keychain.Query {
	return keychain.Query{
		Class:      keychain.ClassGenericPassword,
		Service:    scope,
		Account:    account,
		Accessible: keychain.AccessibleWhenUnlockedThisDeviceOnly,
		ReturnData: true,
	}
}

func newSealer(t *testing.T, dir string) *vault.Sealer {
	t.Helper()
	s, err := vault.NewSealerWithParams(dir, "device passphrase", vault.Params{N: 1 << 10, R: 8, P: 1})
	require.NoError(t, err)
	return s
}

func TestFileStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := New(dir, WithSealer(newSealer(t, dir)))
	require.NoError(t, err)
	require.Equal(t, keychain.StatusSuccess, s1.Add(ctx, query("authToken"), []byte(`"secret-token"`)))

	raw, err := os.ReadFile(s1.Path(scope))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw, []byte("secret-token")), "scope file must be sealed")

	// A fresh store over the same directory sees the record.
	s2, err := New(dir, WithSealer(newSealer(t, dir)))
	require.NoError(t, err)
	data, status := s2.CopyMatching(ctx, query("authToken"))
	require.Equal(t, keychain.StatusSuccess, status)
	assert.Equal(t, `"secret-token"`, string(data))
}

func TestFileStore_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := New(dir, WithSealer(newSealer(t, dir)))
	require.NoError(t, err)
	require.Equal(t, keychain.StatusSuccess, s1.Add(ctx, query("authToken"), []byte("x")))

	other, err := vault.NewSealerWithParams(dir, "another passphrase", vault.Params{N: 1 << 10, R: 8, P: 1})
	require.NoError(t, err)
	s2, err := New(dir, WithSealer(other))
	require.NoError(t, err)

	_, status := s2.CopyMatching(ctx, query("authToken"))
	assert.Equal(t, keychain.StatusDecode, status)
}

func TestFileStore_AddDuplicateDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, keychain.StatusSuccess, s.Add(ctx, query("k"), []byte("1")))
	assert.Equal(t, keychain.StatusDuplicateItem, s.Add(ctx, query("k"), []byte("2")))

	assert.Equal(t, keychain.StatusSuccess, s.Delete(ctx, query("k")))
	assert.Equal(t, keychain.StatusItemNotFound, s.Delete(ctx, query("k")))

	_, status := s.CopyMatching(ctx, query("k"))
	assert.Equal(t, keychain.StatusItemNotFound, status)
}

func TestFileStore_RejectsPathScopes(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	q := query("k")
	q.Service = "../escape"
	assert.Equal(t, keychain.StatusParam, s.Add(ctx, q, []byte("1")))
}

func TestFileStore_GatedRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	gated := query("biometricData")
	gated.Accessible = ""
	gated.AccessControl = &keychain.AccessControl{
		Accessible: keychain.AccessibleWhenUnlockedThisDeviceOnly,
		Flags:      keychain.FlagBiometryAny,
	}

	t.Run("no authenticator", func(t *testing.T) {
		s, err := New(dir)
		require.NoError(t, err)
		require.Equal(t, keychain.StatusSuccess, s.Add(ctx, gated, []byte("secret")))

		_, status := s.CopyMatching(ctx, query("biometricData"))
		assert.Equal(t, keychain.StatusInteractionNotAllowed, status)

		exists := query("biometricData")
		exists.ReturnData = false
		exists.SkipAuthUI = true
		_, status = s.CopyMatching(ctx, exists)
		assert.Equal(t, keychain.StatusSuccess, status)
	})

	t.Run("declined", func(t *testing.T) {
		s, err := New(dir, WithAuthenticator(keychain.AuthenticatorFunc(
			func(context.Context, string, keychain.AccessControlFlags) error {
				return keychain.ErrChallengeDeclined
			})))
		require.NoError(t, err)

		_, status := s.CopyMatching(ctx, query("biometricData"))
		assert.Equal(t, keychain.StatusUserCanceled, status)
	})

	t.Run("approved", func(t *testing.T) {
		var prompts []string
		s, err := New(dir, WithAuthenticator(keychain.AuthenticatorFunc(
			func(_ context.Context, prompt string, _ keychain.AccessControlFlags) error {
				prompts = append(prompts, prompt)
				return nil
			})))
		require.NoError(t, err)

		q := query("biometricData")
		q.Prompt = "Unlock"
		data, status := s.CopyMatching(ctx, q)
		require.Equal(t, keychain.StatusSuccess, status)
		assert.Equal(t, "secret", string(data))
		assert.Equal(t, []string{"Unlock"}, prompts)

		item, ok := s.Item(scope, "biometricData")
		require.True(t, ok)
		assert.True(t, item.Gated())
	})
}

func TestFileStore_Accounts(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, keychain.StatusSuccess, s.Add(ctx, query("a"), []byte("1")))
	require.Equal(t, keychain.StatusSuccess, s.Add(ctx, query("b"), []byte("2")))

	assert.ElementsMatch(t, []string{"a", "b"}, s.Accounts(scope))
	assert.Empty(t, s.Accounts("com.celerix.empty"))
}

func TestFileStore_CloseKeepsRecordsOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, WithSealer(newSealer(t, dir)))
	require.NoError(t, err)
	require.Equal(t, keychain.StatusSuccess, s.Add(ctx, query("authToken"), []byte(`"tok"`)))
	require.NoError(t, s.Close())

	data, status := s.CopyMatching(ctx, query("authToken"))
	require.Equal(t, keychain.StatusSuccess, status)
	assert.Equal(t, `"tok"`, string(data))

	ac, err := s.NewAccessControl(keychain.AccessibleWhenUnlockedThisDeviceOnly, keychain.FlagBiometryAny)
	require.NoError(t, err)
	assert.True(t, ac.RequiresChallenge())
}
