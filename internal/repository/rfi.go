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
	ErrRFINotFound        = fmt.Errorf("rfi %w", ErrNotFound)
	ErrDuplicateRFINumber = errors.New("rfi number already in use")
)

type RFIRepository interface {
	Create(ctx context.Context, rfi *model.RFI) error
	// ByID returns the RFI even when soft-deleted.
	ByID(ctx context.Context, id string) (*model.RFI, error)
	// ByProject and ByClient include soft-deleted RFIs.
	ByProject(ctx context.Context, projectID string) ([]*model.RFI, error)
	ByClient(ctx context.Context, clientID string) ([]*model.RFI, error)
	RFIs(ctx context.Context, filter softdelete.Predicate) ([]*model.RFI, error)
	// NextNumber returns the next free number among non-deleted RFIs of the
	// project, or of the client's direct RFIs when projectID is nil.
	NextNumber(ctx context.Context, clientID string, projectID *string) (int, error)
	Update(ctx context.Context, id string, update model.RFIUpdate) error
	SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error
	Delete(ctx context.Context, id string) error

	CountByCreator(ctx context.Context, userID string) (int, error)
	ReassignCreator(ctx context.Context, fromUserID, toUserID string) (int64, error)
}

type rfiRepository struct {
	db *sqlx.DB
}

func NewRFIRepository(db *sqlx.DB) RFIRepository {
	return &rfiRepository{db: db}
}

func (r *rfiRepository) Create(ctx context.Context, rfi *model.RFI) error {
	if rfi.ID == "" {
		rfi.ID = uuid.New().String()
	}
	if rfi.CreatedAt.IsZero() {
		rfi.CreatedAt = now()
	}
	if rfi.UpdatedAt.IsZero() {
		rfi.UpdatedAt = rfi.CreatedAt
	}
	if rfi.Status == "" {
		rfi.Status = model.RFIStatusOpen
	}

	query := `INSERT INTO rfis (id, rfi_number, client_id, project_id, created_by_id, title, question, status, due_date, deleted_at, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		rfi.ID,
		rfi.RFINumber,
		rfi.ClientID,
		rfi.ProjectID,
		rfi.CreatedByID,
		rfi.Title,
		rfi.Question,
		rfi.Status,
		rfi.DueDate,
		rfi.DeletedAt,
		rfi.CreatedAt,
		rfi.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateRFINumber
	}
	return err
}

func (r *rfiRepository) ByID(ctx context.Context, id string) (*model.RFI, error) {
	rfi := &model.RFI{}
	err := r.db.GetContext(ctx, rfi, r.db.Rebind(`SELECT * FROM rfis WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRFINotFound
	}
	if err != nil {
		return nil, err
	}

	return rfi, nil
}

func (r *rfiRepository) ByProject(ctx context.Context, projectID string) ([]*model.RFI, error) {
	var rfis []*model.RFI
	query := `SELECT * FROM rfis WHERE project_id = ? ORDER BY rfi_number ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &rfis, r.db.Rebind(query), projectID)
	if err != nil {
		return nil, err
	}

	return rfis, nil
}

func (r *rfiRepository) ByClient(ctx context.Context, clientID string) ([]*model.RFI, error) {
	var rfis []*model.RFI
	query := `SELECT * FROM rfis WHERE client_id = ? ORDER BY rfi_number ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &rfis, r.db.Rebind(query), clientID)
	if err != nil {
		return nil, err
	}

	return rfis, nil
}

func (r *rfiRepository) RFIs(ctx context.Context, filter softdelete.Predicate) ([]*model.RFI, error) {
	var rfis []*model.RFI
	query, args := selectActive(r.db, "rfis", filter, "rfi_number ASC")

	err := r.db.SelectContext(ctx, &rfis, query, args...)
	if err != nil {
		return nil, err
	}

	return rfis, nil
}

func (r *rfiRepository) NextNumber(ctx context.Context, clientID string, projectID *string) (int, error) {
	scope := softdelete.And(softdelete.Eq("client_id", clientID), softdelete.IsNull("project_id"))
	if projectID != nil {
		scope = softdelete.Eq("project_id", *projectID)
	}
	where := softdelete.And(softdelete.ActiveOnly(), scope)

	var max sql.NullInt64
	query := `SELECT MAX(rfi_number) FROM rfis` + softdelete.Where(where)
	err := r.db.GetContext(ctx, &max, r.db.Rebind(query), where.Args...)
	if err != nil {
		return 0, err
	}

	return int(max.Int64) + 1, nil
}

func (r *rfiRepository) Update(ctx context.Context, id string, update model.RFIUpdate) error {
	var sets []string
	var args []any
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*update.Title))
	}
	if update.Question != nil {
		sets = append(sets, "question = ?")
		args = append(args, *update.Question)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *update.DueDate)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)
	query := `UPDATE rfis SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
	rows, err := bulkExec(ctx, r.db, query, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRFINotFound
	}
	return nil
}

func (r *rfiRepository) SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error {
	return softDeleteByID(ctx, r.db, "rfis", id, mark, false, ErrRFINotFound)
}

func (r *rfiRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "rfis", id, ErrRFINotFound)
}

func (r *rfiRepository) CountByCreator(ctx context.Context, userID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM rfis WHERE created_by_id = ?`, userID)
}

func (r *rfiRepository) ReassignCreator(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE rfis SET created_by_id = ? WHERE created_by_id = ?`, toUserID, fromUserID)
}
