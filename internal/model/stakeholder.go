package model

import (
	"time"
)

// ProjectStakeholder links a Contact to a Project. It is always hard-deleted.
type ProjectStakeholder struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	ContactID string    `db:"contact_id" json:"contact_id"`
	AddedByID *string   `db:"added_by_id" json:"added_by_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
