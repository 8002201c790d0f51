package repository

import (
	"context"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ResponseRepository interface {
	Create(ctx context.Context, response *model.Response) error
	ByRFI(ctx context.Context, rfiID string) ([]*model.Response, error)
	CountByRFI(ctx context.Context, rfiID string) (int, error)
	DeleteByRFI(ctx context.Context, rfiID string) (int64, error)

	CountByAuthor(ctx context.Context, userID string) (int, error)
	ReassignAuthor(ctx context.Context, fromUserID, toUserID string) (int64, error)
	ClearAuthor(ctx context.Context, userID string) (int64, error)
}

type responseRepository struct {
	db *sqlx.DB
}

func NewResponseRepository(db *sqlx.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = now()
	}

	query := `INSERT INTO responses (id, rfi_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		response.ID,
		response.RFIID,
		response.AuthorID,
		response.Body,
		response.CreatedAt,
	)
	return err
}

func (r *responseRepository) ByRFI(ctx context.Context, rfiID string) ([]*model.Response, error) {
	var responses []*model.Response
	query := `SELECT * FROM responses WHERE rfi_id = ? ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &responses, r.db.Rebind(query), rfiID)
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *responseRepository) CountByRFI(ctx context.Context, rfiID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM responses WHERE rfi_id = ?`, rfiID)
}

func (r *responseRepository) DeleteByRFI(ctx context.Context, rfiID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM responses WHERE rfi_id = ?`, rfiID)
}

func (r *responseRepository) CountByAuthor(ctx context.Context, userID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM responses WHERE author_id = ?`, userID)
}

func (r *responseRepository) ReassignAuthor(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE responses SET author_id = ? WHERE author_id = ?`, toUserID, fromUserID)
}

func (r *responseRepository) ClearAuthor(ctx context.Context, userID string) (int64, error) {
	return bulkExec(ctx, r.db, `UPDATE responses SET author_id = NULL WHERE author_id = ?`, userID)
}
