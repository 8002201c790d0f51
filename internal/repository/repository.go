package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is wrapped by every per-entity not-found error.
var ErrNotFound = errors.New("not found")

// rowsAffected returns how many rows a bulk statement touched.
func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// isUniqueViolation works for both SQLite and PostgreSQL
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// deleteByID hard-deletes one row and returns notFound when nothing matched.
func deleteByID(ctx context.Context, db *sqlx.DB, table, id string, notFound error) error {
	rows, err := rowsAffected(db.ExecContext(ctx, db.Rebind(`DELETE FROM `+table+` WHERE id = ?`), id))
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// softDeleteByID stamps mark on an active row. Tables without an active
// column pass withActive=false.
func softDeleteByID(ctx context.Context, db *sqlx.DB, table, id string, mark softdelete.Mark, withActive bool, notFound error) error {
	var query string
	var args []any
	if withActive {
		query = `UPDATE ` + table + ` SET deleted_at = ?, active = ? WHERE id = ? AND deleted_at IS NULL`
		args = []any{mark.DeletedAt, mark.Active, id}
	} else {
		query = `UPDATE ` + table + ` SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`
		args = []any{mark.DeletedAt, id}
	}

	rows, err := rowsAffected(db.ExecContext(ctx, db.Rebind(query), args...))
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// selectActive builds "SELECT * FROM table WHERE deleted_at IS NULL AND <filter> ORDER BY orderBy".
func selectActive(db *sqlx.DB, table string, filter softdelete.Predicate, orderBy string) (string, []any) {
	where := softdelete.And(softdelete.ActiveOnly(), filter)
	query := `SELECT * FROM ` + table + softdelete.Where(where)
	if orderBy != "" {
		query += ` ORDER BY ` + orderBy
	}
	return db.Rebind(query), where.Args
}

func now() time.Time {
	return time.Now().UTC()
}

// bulkExec runs a scoped UPDATE or DELETE and returns the affected row count.
func bulkExec(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	return rowsAffected(db.ExecContext(ctx, db.Rebind(query), args...))
}

// count runs a SELECT COUNT(*) query.
func count(ctx context.Context, db *sqlx.DB, query string, args ...any) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, db.Rebind(query), args...)
	return n, err
}
