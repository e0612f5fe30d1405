package engine

//go:generate mockgen -source=../../pkg/keychain/query.go -destination=mocks/mock_itemstore.go -package=mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/celerix-dev/celerix-keystore/internal/engine/mocks"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

func newMockEngine(t *testing.T) (*Engine, *mocks.MockItemStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	items := mocks.NewMockItemStore(ctrl)
	return New(items, WithScope("com.celerix.mock")), items
}

func TestSave_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  keychain.Status
		wantErr error
	}{
		{"duplicate after delete", keychain.StatusDuplicateItem, keychain.ErrDuplicate},
		{"auth failed", keychain.StatusAuthFailed, keychain.ErrUnexpected},
		{"io", keychain.StatusIO, keychain.ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, items := newMockEngine(t)
			ctx := context.Background()

			gomock.InOrder(
				items.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(keychain.StatusItemNotFound),
				items.EXPECT().Add(gomock.Any(), gomock.Any(), []byte(`"v"`)).Return(tt.status),
			)

			err := e.Save(ctx, "authToken", "v", false)
			require.ErrorIs(t, err, tt.wantErr)

			status, ok := keychain.StatusOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestSave_QueryShape(t *testing.T) {
	e, items := newMockEngine(t)
	ctx := context.Background()

	items.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(keychain.StatusSuccess)
	items.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q keychain.Query, _ []byte) keychain.Status {
			assert.Equal(t, keychain.ClassGenericPassword, q.Class)
			assert.Equal(t, "com.celerix.mock", q.Service)
			assert.Equal(t, "biometricData", q.Account)
			assert.Empty(t, q.Accessible)
			require.NotNil(t, q.AccessControl)
			assert.Equal(t, keychain.FlagBiometryAny, q.AccessControl.Flags)
			return keychain.StatusSuccess
		})

	require.NoError(t, e.Save(ctx, "biometricData", "v", true))
}

func TestRead_StatusMapping(t *testing.T) {
	t.Run("auth failed is unexpected", func(t *testing.T) {
		e, items := newMockEngine(t)
		items.EXPECT().CopyMatching(gomock.Any(), gomock.Any()).Return(nil, keychain.StatusAuthFailed)

		var out string
		found, err := e.Read(context.Background(), "authToken", "", &out)
		assert.False(t, found)
		require.ErrorIs(t, err, keychain.ErrUnexpected)
		assert.EqualError(t, err, "keychain error: -25293")
	})

	t.Run("user canceled is absent", func(t *testing.T) {
		e, items := newMockEngine(t)
		items.EXPECT().CopyMatching(gomock.Any(), gomock.Any()).Return(nil, keychain.StatusUserCanceled)

		var out string
		found, err := e.Read(context.Background(), "authToken", "Unlock", &out)
		assert.False(t, found)
		assert.NoError(t, err)
	})

	t.Run("prompt is forwarded", func(t *testing.T) {
		e, items := newMockEngine(t)
		items.EXPECT().CopyMatching(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q keychain.Query) ([]byte, keychain.Status) {
				assert.True(t, q.ReturnData)
				assert.True(t, q.MatchLimitOne)
				assert.Equal(t, "Unlock your tokens", q.Prompt)
				return []byte(`"tok"`), keychain.StatusSuccess
			})

		got, found, err := keychain.Read[string](context.Background(), e, "authToken", "Unlock your tokens")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "tok", got)
	})
}

func TestDelete_StatusMapping(t *testing.T) {
	e, items := newMockEngine(t)
	items.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(keychain.StatusIO)

	err := e.Delete(context.Background(), "authToken")
	require.ErrorIs(t, err, keychain.ErrUnexpected)
	status, _ := keychain.StatusOf(err)
	assert.Equal(t, keychain.StatusIO, status)
}

func TestContains_StatusMapping(t *testing.T) {
	tests := []struct {
		status keychain.Status
		want   bool
	}{
		{keychain.StatusSuccess, true},
		{keychain.StatusInteractionNotAllowed, true},
		{keychain.StatusItemNotFound, false},
		{keychain.StatusAuthFailed, false},
		{keychain.StatusIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			e, items := newMockEngine(t)
			items.EXPECT().CopyMatching(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, q keychain.Query) ([]byte, keychain.Status) {
					assert.False(t, q.ReturnData)
					assert.True(t, q.SkipAuthUI)
					return nil, tt.status
				})

			assert.Equal(t, tt.want, e.Contains(context.Background(), "authToken"))
		})
	}
}

func TestClearAll_SwallowsErrors(t *testing.T) {
	e, items := newMockEngine(t)
	items.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(keychain.StatusIO).Times(len(keychain.AllKeys()))

	assert.NotPanics(t, func() { e.ClearAll(context.Background()) })
}

func TestAtomicUpdate_ReadFailureAborts(t *testing.T) {
	e, items := newMockEngine(t)
	items.EXPECT().CopyMatching(gomock.Any(), gomock.Any()).Return(nil, keychain.StatusIO)

	called := false
	err := e.AtomicUpdate(context.Background(), "counter", func(keychain.Current) (any, error) {
		called = true
		return 1, nil
	})
	require.ErrorIs(t, err, keychain.ErrUnexpected)
	assert.False(t, called)
}
