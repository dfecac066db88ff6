package core

// Role is one of the two seats in a room.
type Role string

const (
	RoleFirst  Role = "first"
	RoleSecond Role = "second"
)

// Other returns the opposite seat.
func (r Role) Other() Role {
	if r == RoleFirst {
		return RoleSecond
	}
	return RoleFirst
}

// Valid reports whether r names a known seat.
func (r Role) Valid() bool {
	return r == RoleFirst || r == RoleSecond
}

var roles = [...]Role{RoleFirst, RoleSecond}
