package model

import (
	"time"
)

// RegistrationToken invites a contact to set a stakeholder password.
type RegistrationToken struct {
	ID        string     `db:"id"`
	ContactID *string    `db:"contact_id"`
	Email     string     `db:"email"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *RegistrationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RegistrationToken) IsValid() bool {
	return !t.IsExpired() && t.UsedAt == nil
}
