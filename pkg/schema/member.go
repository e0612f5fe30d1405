package schema

import "github.com/google/uuid"

// FamilyMember is a row of the remote member table. JSON names follow the
// table's snake_case columns.
type FamilyMember struct {
	ID             *int64    `json:"id,omitempty"`
	Identification uuid.UUID `json:"identification_uuid"`
	Email          string    `json:"email_parent" validate:"required,email"`
	MemberName     string    `json:"member_name" validate:"required,max=120"`
}
