package softdelete

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkDeletedAt(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	mark := MarkDeletedAt(now)

	assert.Equal(t, now, mark.DeletedAt)
	assert.False(t, mark.Active)
}

func TestMarkDeleted_UsesCurrentTime(t *testing.T) {
	before := time.Now()
	mark := MarkDeleted()
	after := time.Now()

	assert.False(t, mark.DeletedAt.Before(before))
	assert.False(t, mark.DeletedAt.After(after))
	assert.False(t, mark.Active)
}

func TestActiveOnly(t *testing.T) {
	assert.Equal(t, "deleted_at IS NULL", ActiveOnly().Clause)
	assert.Empty(t, ActiveOnly().Args)
	assert.Equal(t, "p.deleted_at IS NULL", ActiveOnlyOn("p").Clause)
	assert.Equal(t, ActiveOnly(), ActiveOnlyOn(""))
}

func TestAnd(t *testing.T) {
	tests := []struct {
		name       string
		preds      []Predicate
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "nothing",
			preds:      nil,
			wantClause: "",
		},
		{
			name:       "single predicate is not parenthesised",
			preds:      []Predicate{ActiveOnly()},
			wantClause: "deleted_at IS NULL",
		},
		{
			name:       "active only with caller filter",
			preds:      []Predicate{ActiveOnly(), Eq("client_id", "c1")},
			wantClause: "(deleted_at IS NULL) AND (client_id = ?)",
			wantArgs:   []any{"c1"},
		},
		{
			name:       "zero predicates are skipped",
			preds:      []Predicate{{}, Eq("status", "open"), {}, Eq("project_id", "p1")},
			wantClause: "(status = ?) AND (project_id = ?)",
			wantArgs:   []any{"open", "p1"},
		},
		{
			name:       "nested composition keeps argument order",
			preds:      []Predicate{And(Eq("a", 1), Eq("b", 2)), ActiveOnly()},
			wantClause: "((a = ?) AND (b = ?)) AND (deleted_at IS NULL)",
			wantArgs:   []any{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := And(tt.preds...)
			assert.Equal(t, tt.wantClause, got.Clause)
			assert.Equal(t, tt.wantArgs, got.Args)
		})
	}
}

func TestWhere(t *testing.T) {
	assert.Equal(t, "", Where(Predicate{}))
	assert.Equal(t, " WHERE deleted_at IS NULL", Where(ActiveOnly()))
	assert.Equal(t, " WHERE deleted_at IS NOT NULL", Where(DeletedOnly()))
}
