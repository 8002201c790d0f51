package model

import (
	"time"
)

const (
	RFIStatusOpen     = "open"
	RFIStatusAnswered = "answered"
	RFIStatusClosed   = "closed"
)

// RFI is a request for information raised against a project, or directly
// against a client when ProjectID is nil.
type RFI struct {
	ID          string     `db:"id" json:"id"`
	RFINumber   int        `db:"rfi_number" json:"rfi_number"`
	ClientID    string     `db:"client_id" json:"client_id"`
	ProjectID   *string    `db:"project_id" json:"project_id,omitempty"`
	CreatedByID string     `db:"created_by_id" json:"created_by_id"`
	Title       string     `db:"title" json:"title"`
	Question    string     `db:"question" json:"question"`
	Status      string     `db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *RFI) IsDirect() bool {
	return r.ProjectID == nil
}
