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
	ErrClientNotFound = fmt.Errorf("client %w", ErrNotFound)
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	// ByID returns the client even when soft-deleted.
	ByID(ctx context.Context, id string) (*model.Client, error)
	Clients(ctx context.Context, filter softdelete.Predicate) ([]*model.Client, error)
	Update(ctx context.Context, id string, update model.ClientUpdate) error
	SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now()
	}

	query := `INSERT INTO clients (id, name, active, deleted_at, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		client.ID,
		client.Name,
		client.Active,
		client.DeletedAt,
		client.CreatedAt,
	)
	return err
}

func (r *clientRepository) ByID(ctx context.Context, id string) (*model.Client, error) {
	client := &model.Client{}
	err := r.db.GetContext(ctx, client, r.db.Rebind(`SELECT * FROM clients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) Clients(ctx context.Context, filter softdelete.Predicate) ([]*model.Client, error) {
	var clients []*model.Client
	query, args := selectActive(r.db, "clients", filter, "LOWER(name) ASC")

	err := r.db.SelectContext(ctx, &clients, query, args...)
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, id string, update model.ClientUpdate) error {
	var sets []string
	var args []any
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*update.Name))
	}
	if update.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *update.Active)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := `UPDATE clients SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted_at IS NULL`
	rows, err := bulkExec(ctx, r.db, query, args...)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *clientRepository) SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error {
	return softDeleteByID(ctx, r.db, "clients", id, mark, true, ErrClientNotFound)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "clients", id, ErrClientNotFound)
}
