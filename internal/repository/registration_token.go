package repository

import (
	"context"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RegistrationTokenRepository interface {
	Create(ctx context.Context, token *model.RegistrationToken) error
	// CountByClientContacts and DeleteByClientContacts match tokens issued to
	// one of the client's contacts, either by contact_id or by email. Emails
	// must already be lower-cased.
	CountByClientContacts(ctx context.Context, clientID string, emails []string) (int, error)
	DeleteByClientContacts(ctx context.Context, clientID string, emails []string) (int64, error)
}

type registrationTokenRepository struct {
	db *sqlx.DB
}

func NewRegistrationTokenRepository(db *sqlx.DB) RegistrationTokenRepository {
	return &registrationTokenRepository{db: db}
}

func (r *registrationTokenRepository) Create(ctx context.Context, token *model.RegistrationToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.Token == "" {
		token.Token = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now()
	}

	query := `INSERT INTO registration_tokens (id, contact_id, email, token, expires_at, used_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		token.ID,
		token.ContactID,
		token.Email,
		token.Token,
		token.ExpiresAt,
		token.UsedAt,
		token.CreatedAt,
	)
	return err
}

// clientTokenScope builds the WHERE clause shared by the count and delete.
// Email matches only reach tokens without an owning contact; a token held by
// another client's contact stays even when the addresses agree.
func clientTokenScope(clientID string, emails []string) (string, []any, error) {
	if len(emails) == 0 {
		return `contact_id IN (` + clientContacts + `)`, []any{clientID}, nil
	}
	in, args, err := sqlx.In(`contact_id IN (`+clientContacts+`) OR (contact_id IS NULL AND LOWER(email) IN (?))`, clientID, emails)
	if err != nil {
		return "", nil, err
	}
	return in, args, nil
}

func (r *registrationTokenRepository) CountByClientContacts(ctx context.Context, clientID string, emails []string) (int, error) {
	scope, args, err := clientTokenScope(clientID, emails)
	if err != nil {
		return 0, err
	}
	return count(ctx, r.db, `SELECT COUNT(*) FROM registration_tokens WHERE `+scope, args...)
}

func (r *registrationTokenRepository) DeleteByClientContacts(ctx context.Context, clientID string, emails []string) (int64, error) {
	scope, args, err := clientTokenScope(clientID, emails)
	if err != nil {
		return 0, err
	}
	return bulkExec(ctx, r.db, `DELETE FROM registration_tokens WHERE `+scope, args...)
}
