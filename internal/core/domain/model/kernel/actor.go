package kernel

import (
	"fmt"
	"strings"

	"haulboard/internal/pkg/errs"
	"haulboard/internal/pkg/guard"
)

// Role identifies what an actor is allowed to do with a job record.
type Role int

const (
	// RoleUnknown is the invalid zero value.
	RoleUnknown Role = iota

	// RoleSales creates and schedules jobs and may hold/resume them.
	RoleSales

	// RoleDriver claims jobs and advances their status.
	RoleDriver

	// RoleAdmin may perform any operation, including edits after completion.
	RoleAdmin
)

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleSales:  "sales",
		RoleDriver: "driver",
		RoleAdmin:  "admin",
	}
}

// ParseRole converts a textual role into a Role. Input is case-insensitive.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for role, str := range getValidRoleStrings() {
		if str == normalized {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// String returns the canonical lowercase name of the role.
func (r Role) String() string {
	if str, ok := getValidRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Validate reports whether the role is one of the known values.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsStaff reports whether the role may hold and resume jobs.
func (r Role) IsStaff() bool {
	return r == RoleSales || r == RoleAdmin
}

// ErrActorIsNotConstructed is returned when an Actor was not created via NewActor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("Actor must be created via NewActor")

// Actor is the authenticated identity performing an operation.
// The identity originates from the auth collaborator and is trusted without
// re-verification.
type Actor struct {
	id   UUID
	name string
	role Role

	guard guard.ConstructorGuard
}

// NewActor creates a validated Actor.
func NewActor(id UUID, name string, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if name == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor name")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{
		id:    id,
		name:  name,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Actor was created through NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the actor's unique identifier.
func (a Actor) ID() UUID {
	return a.id
}

// Name returns the actor's display name, recorded in the edit history.
func (a Actor) Name() string {
	return a.name
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// IsEqual compares two actors by identifier.
func (a Actor) IsEqual(other Actor) bool {
	return a.id.IsEqual(other.id)
}
