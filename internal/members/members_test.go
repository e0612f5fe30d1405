package members

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		member  string
		email   string
		wantErr bool
	}{
		{"valid", "Ana", "parent@example.com", false},
		{"missing name", "", "parent@example.com", true},
		{"missing email", "Ana", "", true},
		{"malformed email", "Ana", "not-an-email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newMember(tt.member, tt.email)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMember)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	var c Client = NewMemoryClient()

	ana, err := c.AddMember(ctx, "Ana", "parent@example.com")
	require.NoError(t, err)
	require.NotNil(t, ana.ID)
	assert.NotEqual(t, uuid.Nil, ana.Identification)

	_, err = c.AddMember(ctx, "Luis", "parent@example.com")
	require.NoError(t, err)

	list, err := c.FetchFamilyMembers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].MemberName)

	require.NoError(t, c.DeleteMember(ctx, ana.Identification))
	assert.ErrorIs(t, c.DeleteMember(ctx, ana.Identification), ErrMemberNotFound)

	list, err = c.FetchFamilyMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryClient_RejectsInvalid(t *testing.T) {
	c := NewMemoryClient()
	_, err := c.AddMember(context.Background(), "Ana", "nope")
	assert.ErrorIs(t, err, ErrInvalidMember)

	list, _ := c.FetchFamilyMembers(context.Background())
	assert.Empty(t, list)
}
