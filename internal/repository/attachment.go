package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAttachmentNotFound = fmt.Errorf("attachment %w", ErrNotFound)
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	ByID(ctx context.Context, id string) (*model.Attachment, error)
	ByRFI(ctx context.Context, rfiID string) ([]*model.Attachment, error)
	CountByRFI(ctx context.Context, rfiID string) (int, error)
	DeleteByRFI(ctx context.Context, rfiID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.New().String()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = now()
	}

	query := `INSERT INTO attachments (id, rfi_id, stored_name, filename, mime_type, size, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		attachment.ID,
		attachment.RFIID,
		attachment.StoredName,
		attachment.Filename,
		attachment.MimeType,
		attachment.Size,
		attachment.CreatedAt,
	)
	return err
}

func (r *attachmentRepository) ByID(ctx context.Context, id string) (*model.Attachment, error) {
	attachment := &model.Attachment{}
	err := r.db.GetContext(ctx, attachment, r.db.Rebind(`SELECT * FROM attachments WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return attachment, nil
}

func (r *attachmentRepository) ByRFI(ctx context.Context, rfiID string) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	query := `SELECT * FROM attachments WHERE rfi_id = ? ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &attachments, r.db.Rebind(query), rfiID)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

func (r *attachmentRepository) CountByRFI(ctx context.Context, rfiID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM attachments WHERE rfi_id = ?`, rfiID)
}

func (r *attachmentRepository) DeleteByRFI(ctx context.Context, rfiID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM attachments WHERE rfi_id = ?`, rfiID)
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "attachments", id, ErrAttachmentNotFound)
}
