package domain

import "time"

// Role represents the privilege level of a platform user.
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

// User is the domain model for platform accounts. Accounts are created
// idempotently on first sign-in and are never deleted.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Banned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
