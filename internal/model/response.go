package model

import (
	"time"
)

type Response struct {
	ID        string    `db:"id" json:"id"`
	RFIID     string    `db:"rfi_id" json:"rfi_id"`
	AuthorID  *string   `db:"author_id" json:"author_id,omitempty"` // nil once orphaned
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
