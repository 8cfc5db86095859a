package model

import "time"

// Staff roles understood by the role middleware.  Managers can do everything
// servers can; the distinction exists for future manager-only operations
// (voids, comps) that are out of scope here.
const (
	RoleManager = "MANAGER"
	RoleServer  = "SERVER"
)

// Staff is an employee account used to authenticate against the API.
// Only the bcrypt hash of the password is ever stored.
type Staff struct {
	ID           uint64    // staff.id
	Email        string    // staff.email (unique)
	PasswordHash string    // staff.password_hash (bcrypt)
	DisplayName  string    // staff.display_name
	Role         string    // MANAGER | SERVER
	CreatedAt    time.Time // staff.created_at
}
