package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID        string    `json:"id" cbor:"id"`
	Email     string    `json:"email" cbor:"email"`
	LastLogin time.Time `json:"last_login" cbor:"last_login"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	in := profile{ID: "u-1", Email: "a@example.com", LastLogin: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	for _, c := range []Codec{JSON{}, CBOR{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(in)
			require.NoError(t, err)

			var out profile
			require.NoError(t, c.Decode(data, &out))
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Email, out.Email)
			assert.True(t, in.LastLogin.Equal(out.LastLogin))
		})
	}
}

func TestCodecs_EncodeFailure(t *testing.T) {
	for _, c := range []Codec{JSON{}, CBOR{}} {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.Encode(make(chan int))
			require.ErrorIs(t, err, ErrEncode)
		})
	}
}

func TestCodecs_DecodeShapeMismatch(t *testing.T) {
	for _, c := range []Codec{JSON{}, CBOR{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode("not a number")
			require.NoError(t, err)

			var n int
			require.ErrorIs(t, c.Decode(data, &n), ErrDecode)
		})
	}
}

func TestByName(t *testing.T) {
	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = ByName("cbor")
	require.NoError(t, err)
	assert.Equal(t, "cbor", c.Name())

	_, err = ByName("xml")
	assert.Error(t, err)
}

func TestCBOR_UntypedMapsHaveStringKeys(t *testing.T) {
	data, err := CBOR{}.Encode(map[string]any{"theme": "dark", "nested": map[string]any{"on": true}})
	require.NoError(t, err)

	var out any
	require.NoError(t, CBOR{}.Decode(data, &out))
	m, ok := out.(map[string]any)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "dark", m["theme"])
	assert.IsType(t, map[string]any{}, m["nested"])
}

func TestIsNil(t *testing.T) {
	var p *int
	var m map[string]int
	var sl []byte
	n := 0

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(p))
	assert.True(t, IsNil(m))
	assert.True(t, IsNil(sl))
	assert.False(t, IsNil(&n))
	assert.False(t, IsNil(0))
	assert.False(t, IsNil(""))
	assert.False(t, IsNil([]byte{}))
}
