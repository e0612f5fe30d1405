package keychain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsSuite covers the status mapper and kind matching every store
// operation relies on.
type ErrorsSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsSuite))
}

func (s *ErrorsSuite) TestFromStatus() {
	s.Run("item not found maps to not found", func() {
		err := FromStatus(StatusItemNotFound)
		s.ErrorIs(err, ErrNotFound)
		s.NotErrorIs(err, ErrUnexpected)
	})

	s.Run("duplicate item maps to duplicate", func() {
		s.ErrorIs(FromStatus(StatusDuplicateItem), ErrDuplicate)
	})

	s.Run("anything else is unexpected and keeps the status", func() {
		err := FromStatus(StatusAuthFailed)
		s.ErrorIs(err, ErrUnexpected)

		status, ok := StatusOf(err)
		s.True(ok)
		s.Equal(StatusAuthFailed, status)
		s.Equal("keychain error: -25293", err.Error())
	})
}

func (s *ErrorsSuite) TestCodecErrors() {
	s.Run("encoding wraps the cause", func() {
		cause := errors.New("unsupported type")
		err := EncodingError(cause)
		s.ErrorIs(err, ErrEncodingFailure)
		s.ErrorIs(err, cause)

		_, ok := StatusOf(err)
		s.False(ok)
	})

	s.Run("decoding survives further wrapping", func() {
		err := fmt.Errorf("read profile: %w", DecodingError(errors.New("bad json")))
		s.ErrorIs(err, ErrDecodingFailure)
		s.NotErrorIs(err, ErrEncodingFailure)
	})
}

func (s *ErrorsSuite) TestStatusStrings() {
	s.Equal("item not found", StatusItemNotFound.String())
	s.Equal("status -1", Status(-1).String())
}

func (s *ErrorsSuite) TestRegistry() {
	keys := AllKeys()
	s.Len(keys, 6)
	s.Equal(KeyAuthToken, keys[0])

	keys[0] = "mutated"
	s.Equal(KeyAuthToken, AllKeys()[0], "AllKeys must return a copy")

	s.True(IsRegistered("appLanguage"))
	s.False(IsRegistered("ad-hoc"))
}
