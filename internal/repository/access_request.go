package repository

import (
	"context"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AccessRequestRepository interface {
	Create(ctx context.Context, request *model.AccessRequest) error
	CountByProject(ctx context.Context, projectID string) (int, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	CountByClientContacts(ctx context.Context, clientID string) (int, error)
	DeleteByClientContacts(ctx context.Context, clientID string) (int64, error)
}

type accessRequestRepository struct {
	db *sqlx.DB
}

func NewAccessRequestRepository(db *sqlx.DB) AccessRequestRepository {
	return &accessRequestRepository{db: db}
}

func (r *accessRequestRepository) Create(ctx context.Context, request *model.AccessRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now()
	}
	if request.Status == "" {
		request.Status = model.AccessRequestPending
	}

	query := `INSERT INTO access_requests (id, project_id, contact_id, status, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		request.ID,
		request.ProjectID,
		request.ContactID,
		request.Status,
		request.CreatedAt,
	)
	return err
}

func (r *accessRequestRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM access_requests WHERE project_id = ?`, projectID)
}

func (r *accessRequestRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM access_requests WHERE project_id = ?`, projectID)
}

func (r *accessRequestRepository) CountByClientContacts(ctx context.Context, clientID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM access_requests WHERE `+foreignContactLinks, clientID, clientID)
}

func (r *accessRequestRepository) DeleteByClientContacts(ctx context.Context, clientID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM access_requests WHERE `+foreignContactLinks, clientID, clientID)
}
