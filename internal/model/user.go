package model

// UnassignedUserID marks a user record that has not been given an id yet.
const UnassignedUserID = -1

type Role string

const (
	RoleUnauthorized Role = "unauthorized"
	RoleAdmin        Role = "admin"
	RoleSupervisor   Role = "supervisor"
	RoleUser         Role = "user"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUnauthorized, RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

// AtLeastSupervisor reports whether the role may call
// admin/supervisor-only operations.
func (r Role) AtLeastSupervisor() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// User is an operator identity record. Password holds the plaintext
// credential while the record is in memory; the store seals it before
// it touches disk and it is never serialized outward or logged.
type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Role     Role     `json:"role"`
	Profiles []string `json:"profiles"`
}

// PublicUser is the outward shape of a user record.
type PublicUser struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	Profiles []string `json:"profiles"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Profiles: u.Profiles,
	}
}
