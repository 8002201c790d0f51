package repository

import (
	"context"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// clientContacts selects the ids of every contact that belongs to a client.
const clientContacts = `SELECT id FROM contacts WHERE client_id = ?`

// foreignContactLinks matches rows of a client's contacts on projects owned by
// other clients. Both placeholders take the client id.
const foreignContactLinks = `contact_id IN (` + clientContacts + `) AND project_id NOT IN (SELECT id FROM projects WHERE client_id = ?)`

type StakeholderRepository interface {
	Create(ctx context.Context, stakeholder *model.ProjectStakeholder) error
	ByProject(ctx context.Context, projectID string) ([]*model.ProjectStakeholder, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)

	// ByClientContacts variants match links of the client's contacts on
	// projects of other clients.
	CountByClientContacts(ctx context.Context, clientID string) (int, error)
	DeleteByClientContacts(ctx context.Context, clientID string) (int64, error)

	CountByAddedBy(ctx context.Context, userID string) (int, error)
	ReassignAddedBy(ctx context.Context, fromUserID, toUserID string) (int64, error)
	ClearAddedBy(ctx context.Context, userID string) (int64, error)
}

type stakeholderRepository struct {
	db *sqlx.DB
}

func NewStakeholderRepository(db *sqlx.DB) StakeholderRepository {
	return &stakeholderRepository{db: db}
}

func (r *stakeholderRepository) Create(ctx context.Context, stakeholder *model.ProjectStakeholder) error {
	if stakeholder.ID == "" {
		stakeholder.ID = uuid.New().String()
	}
	if stakeholder.CreatedAt.IsZero() {
		stakeholder.CreatedAt = now()
	}

	query := `INSERT INTO project_stakeholders (id, project_id, contact_id, added_by_id, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		stakeholder.ID,
		stakeholder.ProjectID,
		stakeholder.ContactID,
		stakeholder.AddedByID,
		stakeholder.CreatedAt,
	)
	return err
}

func (r *stakeholderRepository) ByProject(ctx context.Context, projectID string) ([]*model.ProjectStakeholder, error) {
	var stakeholders []*model.ProjectStakeholder
	query := `SELECT * FROM project_stakeholders WHERE project_id = ? ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &stakeholders, r.db.Rebind(query), projectID)
	if err != nil {
		return nil, err
	}

	return stakeholders, nil
}

func (r *stakeholderRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM project_stakeholders WHERE project_id = ?`, projectID)
}

func (r *stakeholderRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM project_stakeholders WHERE project_id = ?`, projectID)
}

func (r *stakeholderRepository) CountByClientContacts(ctx context.Context, clientID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM project_stakeholders WHERE `+foreignContactLinks, clientID, clientID)
}

func (r *stakeholderRepository) DeleteByClientContacts(ctx context.Context, clientID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM project_stakeholders WHERE `+foreignContactLinks, clientID, clientID)
}

func (r *stakeholderRepository) CountByAddedBy(ctx context.Context, userID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM project_stakeholders WHERE added_by_id = ?`, userID)
}

func (r *stakeholderRepository) ReassignAddedBy(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE project_stakeholders SET added_by_id = ? WHERE added_by_id = ?`, toUserID, fromUserID)
}

func (r *stakeholderRepository) ClearAddedBy(ctx context.Context, userID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE project_stakeholders SET added_by_id = NULL WHERE added_by_id = ?`, userID)
}
