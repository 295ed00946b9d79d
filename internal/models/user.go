package models

import "time"

// Roles a user can hold. The first registered account becomes the owner.
const (
	RoleMember = "member"
	RoleOwner  = "owner"
)

// User is an account row. The password hash never leaves the repository layer
// except for login verification.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated view of a user carried by sessions and
// request contexts after token verification.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsOwner reports whether the identity holds the privileged role.
func (i Identity) IsOwner() bool {
	return i.Role == RoleOwner
}
