package model

import (
	"time"
)

type Attachment struct {
	ID         string    `db:"id" json:"id"`
	RFIID      string    `db:"rfi_id" json:"rfi_id"`
	StoredName string    `db:"stored_name" json:"-"` // storage key
	Filename   string    `db:"filename" json:"filename"`
	MimeType   string    `db:"mime_type" json:"mime_type"`
	Size       int64     `db:"size" json:"size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
