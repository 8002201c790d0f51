package model

import (
	"time"
)

// Contact is a client-side person. A contact with a password can log in as a
// project stakeholder.
type Contact struct {
	ID           string     `db:"id" json:"id"`
	ClientID     string     `db:"client_id" json:"client_id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         *string    `db:"role" json:"role,omitempty"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
