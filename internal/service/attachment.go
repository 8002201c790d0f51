package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/buildline/rfitrack/internal/validation"
	"github.com/google/uuid"
)

type AttachmentService struct {
	repos   *repository.Repositories
	storage storage.Storage
}

func NewAttachmentService(repos *repository.Repositories, storage storage.Storage) *AttachmentService {
	return &AttachmentService{
		repos:   repos,
		storage: storage,
	}
}

// Upload stores a file for an RFI under a generated key and records it. The
// stored file is removed again when the row cannot be written.
func (s *AttachmentService) Upload(ctx context.Context, rfiID, filename string, size int64, file io.Reader) (*model.Attachment, error) {
	rfi, err := s.repos.RFIs.ByID(ctx, rfiID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfi: %w", err)
	}
	if rfi.DeletedAt != nil {
		return nil, repository.ErrRFINotFound
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if size > validation.MaxAttachmentSize {
		return nil, invalidInput(fmt.Errorf("attachment is larger than %d MB", validation.MaxAttachmentSize>>20))
	}
	mimeType, body, err := validation.SniffAttachment(filename, file)
	if err != nil {
		return nil, invalidInput(err)
	}

	storedName := path.Join("attachments", uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
	err = s.storage.Save(ctx, storedName, body)
	if err != nil {
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	attachment := &model.Attachment{
		RFIID:      rfi.ID,
		StoredName: storedName,
		Filename:   filename,
		MimeType:   mimeType,
		Size:       size,
	}
	err = s.repos.Attachments.Create(ctx, attachment)
	if err != nil {
		delErr := s.storage.Delete(ctx, storedName)
		if delErr != nil {
			slog.Error("failed to delete attachment during cleanup", "error", delErr, "stored_name", storedName)
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	return attachment, nil
}

func (s *AttachmentService) ByRFI(ctx context.Context, rfiID string) ([]*model.Attachment, error) {
	return s.repos.Attachments.ByRFI(ctx, rfiID)
}

// URL returns a download link for the stored file.
func (s *AttachmentService) URL(attachment *model.Attachment) string {
	if attachment == nil {
		return ""
	}
	return s.storage.URL(attachment.StoredName)
}
