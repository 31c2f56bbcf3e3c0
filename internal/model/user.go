package model

// Role decides what a signed-in user may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is a staff account. Passwords are stored and compared as plaintext.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DefaultUsers is the seed list used when no users have been persisted yet.
func DefaultUsers() []User {
	return []User{
		{ID: "user-1", Username: "1111", Password: "1111", Role: RoleAdmin},
		{ID: "user-2", Username: "staff", Password: "password", Role: RoleStaff},
	}
}
