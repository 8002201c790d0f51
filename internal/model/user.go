package model

import (
	"time"
)

const (
	UserRoleAdmin   = "admin"
	UserRoleManager = "manager"
	UserRoleStaff   = "staff"
)

// User is an internal staff account. Projects, RFIs, responses and
// stakeholder links point at users weakly; they never own them.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsAvailable reports whether the user can take over records from another user.
func (u *User) IsAvailable() bool {
	return u.Active && u.DeletedAt == nil
}
