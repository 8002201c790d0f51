package model

import (
	"time"
)

// EmailLog records an email that was sent about an RFI.
type EmailLog struct {
	ID        string    `db:"id"`
	RFIID     string    `db:"rfi_id"`
	Recipient string    `db:"recipient"`
	Subject   string    `db:"subject"`
	Status    string    `db:"status"`
	SentAt    time.Time `db:"sent_at"`
}

// EmailQueueEntry is an email waiting for delivery, e.g. an RFI reminder.
type EmailQueueEntry struct {
	ID          string    `db:"id"`
	RFIID       string    `db:"rfi_id"`
	Recipient   string    `db:"recipient"`
	Subject     string    `db:"subject"`
	Body        string    `db:"body"`
	Attempts    int       `db:"attempts"`
	ScheduledAt time.Time `db:"scheduled_at"`
}
