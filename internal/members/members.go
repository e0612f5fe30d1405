// Package members is the client of the remote family member table.
package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/celerix-dev/celerix-keystore/pkg/schema"
)

// Table is the remote table holding family members.
const Table = "fhk_family_members"

var (
	// ErrInvalidMember is returned when a member fails validation.
	ErrInvalidMember = errors.New("members: invalid member")
	// ErrMemberNotFound is returned when no row matches an identification.
	ErrMemberNotFound = errors.New("members: member not found")
)

// Client manages family members.
type Client interface {
	AddMember(ctx context.Context, name, email string) (schema.FamilyMember, error)
	FetchFamilyMembers(ctx context.Context) ([]schema.FamilyMember, error)
	DeleteMember(ctx context.Context, identification uuid.UUID) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// newMember builds a validated member with a fresh identification.
func newMember(name, email string) (schema.FamilyMember, error) {
	m := schema.FamilyMember{
		Identification: uuid.New(),
		Email:          email,
		MemberName:     name,
	}
	if err := Validate(m); err != nil {
		return schema.FamilyMember{}, err
	}
	return m, nil
}

// Validate checks m against its field rules.
func Validate(m schema.FamilyMember) error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidMember, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidMember, err)
	}
	return nil
}
