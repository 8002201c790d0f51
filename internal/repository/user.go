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
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// ByID returns the user even when soft-deleted.
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Users(ctx context.Context, filter softdelete.Predicate) ([]*model.User, error)
	SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	if user.Role == "" {
		user.Role = model.UserRoleStaff
	}

	query := `INSERT INTO users (id, email, name, password_hash, role, active, deleted_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Active,
		user.DeletedAt,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.GetContext(ctx, user, r.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.GetContext(ctx, user, r.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Users(ctx context.Context, filter softdelete.Predicate) ([]*model.User, error) {
	var users []*model.User
	query, args := selectActive(r.db, "users", filter, "name ASC")

	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id string, mark softdelete.Mark) error {
	return softDeleteByID(ctx, r.db, "users", id, mark, true, ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "users", id, ErrUserNotFound)
}
