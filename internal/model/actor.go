package model

// Role is the directory-assigned role of an actor. It is resolved once at
// session start and never changes for the life of the session.
type Role string

const (
	// RoleUnderwriter may only toggle their own status and never sees counters.
	RoleUnderwriter Role = "underwriter"
	// RoleAssigner may toggle anyone's status and read/adjust any counter.
	RoleAssigner Role = "assigner"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUnderwriter, RoleAssigner:
		return true
	}
	return false
}

// Actor identifies who is issuing an operation against the board.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAssigner reports whether the actor holds the assigner role.
func (a Actor) IsAssigner() bool {
	return a.Role == RoleAssigner
}
