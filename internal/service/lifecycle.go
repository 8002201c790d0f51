package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/buildline/rfitrack/internal/validation"
)

// LifecycleService archives rows (soft delete), lists the rows that are not
// archived and applies explicit update payloads. Archiving touches only the
// row itself. Its children stay as they are until a hard delete.
type LifecycleService struct {
	repos *repository.Repositories
}

func NewLifecycleService(repos *repository.Repositories) *LifecycleService {
	return &LifecycleService{repos: repos}
}

func (s *LifecycleService) SoftDeleteClient(ctx context.Context, id string) error {
	return s.softDelete(ctx, "client", id, s.repos.Clients.SoftDelete)
}

func (s *LifecycleService) SoftDeleteProject(ctx context.Context, id string) error {
	return s.softDelete(ctx, "project", id, s.repos.Projects.SoftDelete)
}

func (s *LifecycleService) SoftDeleteRFI(ctx context.Context, id string) error {
	return s.softDelete(ctx, "rfi", id, s.repos.RFIs.SoftDelete)
}

func (s *LifecycleService) SoftDeleteContact(ctx context.Context, id string) error {
	return s.softDelete(ctx, "contact", id, s.repos.Contacts.SoftDelete)
}

func (s *LifecycleService) SoftDeleteUser(ctx context.Context, id string) error {
	return s.softDelete(ctx, "user", id, s.repos.Users.SoftDelete)
}

func (s *LifecycleService) softDelete(ctx context.Context, entity, id string, mark func(context.Context, string, softdelete.Mark) error) error {
	err := mark(ctx, id, softdelete.MarkDeleted())
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", entity, err)
	}
	return nil
}

// Lists AND the caller's filter with the active-only predicate.

func (s *LifecycleService) Clients(ctx context.Context, filter softdelete.Predicate) ([]*model.Client, error) {
	return s.repos.Clients.Clients(ctx, filter)
}

func (s *LifecycleService) ProjectsByClient(ctx context.Context, clientID string, filter softdelete.Predicate) ([]*model.Project, error) {
	return s.repos.Projects.Projects(ctx, softdelete.And(softdelete.Eq("client_id", clientID), filter))
}

func (s *LifecycleService) RFIsByProject(ctx context.Context, projectID string, filter softdelete.Predicate) ([]*model.RFI, error) {
	return s.repos.RFIs.RFIs(ctx, softdelete.And(softdelete.Eq("project_id", projectID), filter))
}

func (s *LifecycleService) ContactsByClient(ctx context.Context, clientID string, filter softdelete.Predicate) ([]*model.Contact, error) {
	return s.repos.Contacts.Contacts(ctx, softdelete.And(softdelete.Eq("client_id", clientID), filter))
}

func (s *LifecycleService) Users(ctx context.Context, filter softdelete.Predicate) ([]*model.User, error) {
	return s.repos.Users.Users(ctx, filter)
}

func (s *LifecycleService) UpdateClient(ctx context.Context, id string, update model.ClientUpdate) (*model.Client, error) {
	if err := validation.Struct(update); err != nil {
		return nil, invalidInput(err)
	}
	if update.Name != nil {
		if err := validation.ValidateName(*update.Name); err != nil {
			return nil, invalidInput(err)
		}
	}

	err := s.repos.Clients.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return s.repos.Clients.ByID(ctx, id)
}

// UpdateProject also requires a new manager to be an active user.
func (s *LifecycleService) UpdateProject(ctx context.Context, id string, update model.ProjectUpdate) (*model.Project, error) {
	if err := validation.Struct(update); err != nil {
		return nil, invalidInput(err)
	}
	if update.Name != nil {
		if err := validation.ValidateName(*update.Name); err != nil {
			return nil, invalidInput(err)
		}
	}
	if update.ManagerID != nil {
		manager, err := s.repos.Users.ByID(ctx, *update.ManagerID)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get manager: %w", err)
		}
		if manager == nil || !manager.IsAvailable() {
			return nil, invalidInput(fmt.Errorf("manager %s is not an active user", *update.ManagerID))
		}
	}

	err := s.repos.Projects.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.repos.Projects.ByID(ctx, id)
}
