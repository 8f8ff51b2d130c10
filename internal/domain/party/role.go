package party

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is what a caller may do through the API. Booking-level authorization
// (guest, host, arbiter) is still decided by the lifecycle from the address.
type Role string

const (
	RoleParty    Role = "party"
	RoleOperator Role = "operator"
	RoleArbiter  Role = "arbiter"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleParty, RoleOperator, RoleArbiter:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
