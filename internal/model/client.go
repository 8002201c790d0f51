package model

import (
	"time"
)

type Client struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Active    bool       `db:"active" json:"active"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
