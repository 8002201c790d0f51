package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	// ByID returns the project even when soft-deleted.
	ByID(ctx context.Context, id string) (*model.Project, error)
	// ByClient returns every project of the client, soft-deleted ones included.
	ByClient(ctx context.Context, clientID string) ([]*model.Project, error)
	Projects(ctx context.Context, filter softdelete.Predicate) ([]*model.Project, error)
	Update(ctx context.Context, id string, update model.ProjectUpdate) error
	SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error
	Delete(ctx context.Context, id string) error

	CountByManager(ctx context.Context, userID string) (int, error)
	ReassignManager(ctx context.Context, fromUserID, toUserID string) (int64, error)
	ClearManager(ctx context.Context, userID string) (int64, error)
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now()
	}

	query := `INSERT INTO projects (id, client_id, name, manager_id, active, deleted_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		project.ID,
		project.ClientID,
		project.Name,
		project.ManagerID,
		project.Active,
		project.DeletedAt,
		project.CreatedAt,
	)
	return err
}

func (r *projectRepository) ByID(ctx context.Context, id string) (*model.Project, error) {
	project := &model.Project{}
	err := r.db.GetContext(ctx, project, r.db.Rebind(`SELECT * FROM projects WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) ByClient(ctx context.Context, clientID string) ([]*model.Project, error) {
	var projects []*model.Project
	query := `SELECT * FROM projects WHERE client_id = ? ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &projects, r.db.Rebind(query), clientID)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) Projects(ctx context.Context, filter softdelete.Predicate) ([]*model.Project, error) {
	var projects []*model.Project
	query, args := selectActive(r.db, "projects", filter, "LOWER(name) ASC")

	err := r.db.SelectContext(ctx, &projects, query, args...)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, update model.ProjectUpdate) error {
	var sets []string
	var args []any
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*update.Name))
	}
	if update.ManagerID != nil {
		sets = append(sets, "manager_id = ?")
		args = append(args, *update.ManagerID)
	}
	if update.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *update.Active)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := `UPDATE projects SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
	rows, err := bulkExec(ctx, r.db, query, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error {
	return softDeleteByID(ctx, r.db, "projects", id, mark, true, ErrProjectNotFound)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "projects", id, ErrProjectNotFound)
}

func (r *projectRepository) CountByManager(ctx context.Context, userID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM projects WHERE manager_id = ?`, userID)
}

func (r *projectRepository) ReassignManager(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE projects SET manager_id = ? WHERE manager_id = ?`, toUserID, fromUserID)
}

func (r *projectRepository) ClearManager(ctx context.Context, userID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE projects SET manager_id = NULL WHERE manager_id = ?`, userID)
}
