package service

import (
	"errors"
	"fmt"

	"github.com/buildline/rfitrack/internal/repository"
)

var (
	// ErrNotFound matches every repository not-found error.
	ErrNotFound              = repository.ErrNotFound
	ErrDependencyConflict    = errors.New("dependency conflict")
	ErrInvalidReassignTarget = errors.New("invalid reassignment target")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// DependencyConflictError reports rows that still depend on an entity the
// caller asked to delete. Nothing has been written when it is returned.
type DependencyConflictError struct {
	Entity      string
	ID          string
	Dependents  string
	Count       int
	Remediation string
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: still referenced by %d %s; %s", e.Entity, e.ID, e.Count, e.Dependents, e.Remediation)
}

func (e *DependencyConflictError) Unwrap() error {
	return ErrDependencyConflict
}

// invalidInput wraps a validation failure so handlers can map it to 400.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}
