package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrContactNotFound = fmt.Errorf("contact %w", ErrNotFound)
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	ByID(ctx context.Context, id string) (*model.Contact, error)
	// ByClient includes soft-deleted contacts.
	ByClient(ctx context.Context, clientID string) ([]*model.Contact, error)
	Contacts(ctx context.Context, filter softdelete.Predicate) ([]*model.Contact, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
	DeleteByClient(ctx context.Context, clientID string) (int64, error)
	SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now()
	}

	query := `INSERT INTO contacts (id, client_id, name, email, password_hash, role, deleted_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		contact.ID,
		contact.ClientID,
		contact.Name,
		contact.Email,
		contact.PasswordHash,
		contact.Role,
		contact.DeletedAt,
		contact.CreatedAt,
	)
	return err
}

func (r *contactRepository) ByID(ctx context.Context, id string) (*model.Contact, error) {
	contact := &model.Contact{}
	err := r.db.GetContext(ctx, contact, r.db.Rebind(`SELECT * FROM contacts WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) ByClient(ctx context.Context, clientID string) ([]*model.Contact, error) {
	var contacts []*model.Contact
	query := `SELECT * FROM contacts WHERE client_id = ? ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &contacts, r.db.Rebind(query), clientID)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) Contacts(ctx context.Context, filter softdelete.Predicate) ([]*model.Contact, error) {
	var contacts []*model.Contact
	query, args := selectActive(r.db, "contacts", filter, "LOWER(name) ASC")

	err := r.db.SelectContext(ctx, &contacts, query, args...)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM contacts WHERE client_id = ?`, clientID)
}

func (r *contactRepository) DeleteByClient(ctx context.Context, clientID string) (int64, error) {
	return bulkExec(ctx, r.db, `DELETE FROM contacts WHERE client_id = ?`, clientID)
}

func (r *contactRepository) SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error {
	return softDeleteByID(ctx, r.db, "contacts", id, mark, false, ErrContactNotFound)
}
