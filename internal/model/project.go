package model

import (
	"time"
)

type Project struct {
	ID        string     `db:"id" json:"id"`
	ClientID  string     `db:"client_id" json:"client_id"`
	Name      string     `db:"name" json:"name"`
	ManagerID *string    `db:"manager_id" json:"manager_id,omitempty"` // weak reference to users
	Active    bool       `db:"active" json:"active"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

func (p *Project) IsManagedBy(userID string) bool {
	return p.ManagerID != nil && *p.ManagerID == userID
}
