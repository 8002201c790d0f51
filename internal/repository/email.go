package repository

import (
	"context"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EmailLogRepository holds the audit trail of sent RFI emails.
type EmailLogRepository interface {
	Create(ctx context.Context, log *model.EmailLog) error
	CountByRFI(ctx context.Context, rfiID string) (int, error)
	DeleteByRFI(ctx context.Context, rfiID string) (int64, error)
}

// EmailQueueRepository holds RFI emails waiting for delivery.
type EmailQueueRepository interface {
	Enqueue(ctx context.Context, entry *model.EmailQueueEntry) error
	CountByRFI(ctx context.Context, rfiID string) (int, error)
	DeleteByRFI(ctx context.Context, rfiID string) (int64, error)
}

type emailLogRepository struct {
	db *sqlx.DB
}

func NewEmailLogRepository(db *sqlx.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, log *model.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.SentAt.IsZero() {
		log.SentAt = now()
	}

	query := `INSERT INTO email_logs (id, rfi_id, recipient, subject, status, sent_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), log.ID, log.RFIID, log.Recipient, log.Subject, log.Status, log.SentAt)
	return err
}

func (r *emailLogRepository) CountByRFI(ctx context.Context, rfiID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM email_logs WHERE rfi_id = ?`, rfiID)
}

func (r *emailLogRepository) DeleteByRFI(ctx context.Context, rfiID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM email_logs WHERE rfi_id = ?`, rfiID)
}

type emailQueueRepository struct {
	db *sqlx.DB
}

func NewEmailQueueRepository(db *sqlx.DB) EmailQueueRepository {
	return &emailQueueRepository{db: db}
}

func (r *emailQueueRepository) Enqueue(ctx context.Context, entry *model.EmailQueueEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ScheduledAt.IsZero() {
		entry.ScheduledAt = now()
	}

	query := `INSERT INTO email_queue (id, rfi_id, recipient, subject, body, attempts, scheduled_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		entry.ID,
		entry.RFIID,
		entry.Recipient,
		entry.Subject,
		entry.Body,
		entry.Attempts,
		entry.ScheduledAt,
	)
	return err
}

func (r *emailQueueRepository) CountByRFI(ctx context.Context, rfiID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM email_queue WHERE rfi_id = ?`, rfiID)
}

func (r *emailQueueRepository) DeleteByRFI(ctx context.Context, rfiID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM email_queue WHERE rfi_id = ?`, rfiID)
}
