package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// Role is the closed set of principal roles. The zero value means "no role".
type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleApplicant Role = "applicant"
)

// ParseRole normalizes a raw claim or column value. Unrecognized values map to RoleNone.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(raw); r {
	case RoleAdmin, RoleRecruiter, RoleApplicant:
		return r, true
	}
	return RoleNone, false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}

// MarshalJSON renders RoleNone as null.
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts null and rejects nothing: unknown strings become RoleNone.
func (r *Role) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = RoleNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r, _ = ParseRole(raw)
	return nil
}

// User is the principal as recorded in the document store. Its Role is a copy
// that may lag behind the identity claim, which stays authoritative.
type User struct {
	ID        string    `json:"uid"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
}
