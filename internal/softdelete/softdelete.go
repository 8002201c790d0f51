// Package softdelete holds the soft-delete policy shared by every repository:
// how a row is stamped as deleted and the predicate that hides such rows from
// default reads.
package softdelete

import (
	"strings"
	"time"
)

// Column is the nullable timestamp that marks a row as deleted.
const Column = "deleted_at"

// Mark is the value stamped onto a row when it is soft-deleted.
type Mark struct {
	DeletedAt time.Time
	Active    bool
}

// MarkDeleted stamps the current time.
func MarkDeleted() Mark {
	return MarkDeletedAt(time.Now())
}

// MarkDeletedAt stamps t. Active is always false.
func MarkDeletedAt(t time.Time) Mark {
	return Mark{DeletedAt: t, Active: false}
}

// Predicate is a SQL boolean expression using ? placeholders. Callers rebind
// it for their driver (sqlx.DB.Rebind) before executing.
type Predicate struct {
	Clause string
	Args   []any
}

func (p Predicate) IsZero() bool {
	return strings.TrimSpace(p.Clause) == ""
}

// ActiveOnly excludes soft-deleted rows.
func ActiveOnly() Predicate {
	return IsNull(Column)
}

// ActiveOnlyOn is ActiveOnly qualified with a table alias, for joins.
func ActiveOnlyOn(alias string) Predicate {
	if alias == "" {
		return ActiveOnly()
	}
	return IsNull(alias + "." + Column)
}

// DeletedOnly selects only soft-deleted rows.
func DeletedOnly() Predicate {
	return Predicate{Clause: Column + " IS NOT NULL"}
}

func IsNull(column string) Predicate {
	return Predicate{Clause: column + " IS NULL"}
}

func Eq(column string, value any) Predicate {
	return Predicate{Clause: column + " = ?", Args: []any{value}}
}

// And joins predicates with AND. Zero predicates are skipped; the result of
// joining nothing is the zero Predicate.
func And(preds ...Predicate) Predicate {
	var parts []Predicate
	for _, p := range preds {
		if !p.IsZero() {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return Predicate{}
	case 1:
		return parts[0]
	}

	clauses := make([]string, 0, len(parts))
	var args []any
	for _, p := range parts {
		clauses = append(clauses, "("+p.Clause+")")
		args = append(args, p.Args...)
	}
	return Predicate{Clause: strings.Join(clauses, " AND "), Args: args}
}

// Where renders " WHERE <clause>", or "" for the zero Predicate.
func Where(p Predicate) string {
	if p.IsZero() {
		return ""
	}
	return " WHERE " + p.Clause
}
