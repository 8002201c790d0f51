package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/validation"
)

// NewRFI is the input for RFIService.Create. ProjectID nil files a direct
// RFI against the client.
type NewRFI struct {
	ClientID    string     `json:"client_id" validate:"required"`
	ProjectID   *string    `json:"project_id" validate:"omitnil,min=1"`
	CreatedByID string     `json:"-"`
	Title       string     `json:"title" validate:"required,max=300"`
	Question    string     `json:"question" validate:"max=10000"`
	DueDate     *time.Time `json:"due_date"`
}

type RFIService struct {
	repos *repository.Repositories
}

func NewRFIService(repos *repository.Repositories) *RFIService {
	return &RFIService{repos: repos}
}

// Create numbers the RFI one past the highest number held by a non-archived
// RFI in the same project, or among the client's direct RFIs. A concurrent
// create that takes the same number is retried once.
func (s *RFIService) Create(ctx context.Context, input NewRFI) (*model.RFI, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	err := s.checkScope(ctx, input)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		number, err := s.repos.RFIs.NextNumber(ctx, input.ClientID, input.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate rfi number: %w", err)
		}

		rfi := &model.RFI{
			RFINumber:   number,
			ClientID:    input.ClientID,
			ProjectID:   input.ProjectID,
			CreatedByID: input.CreatedByID,
			Title:       input.Title,
			Question:    input.Question,
			Status:      model.RFIStatusOpen,
			DueDate:     input.DueDate,
		}
		err = s.repos.RFIs.Create(ctx, rfi)
		if errors.Is(err, repository.ErrDuplicateRFINumber) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create rfi: %w", err)
		}
		return rfi, nil
	}
}

// checkScope requires an active client, an active project of that client
// when one is given, and an active creator.
func (s *RFIService) checkScope(ctx context.Context, input NewRFI) error {
	client, err := s.repos.Clients.ByID(ctx, input.ClientID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if client.DeletedAt != nil {
		return repository.ErrClientNotFound
	}

	if input.ProjectID != nil {
		project, err := s.repos.Projects.ByID(ctx, *input.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		if project.DeletedAt != nil {
			return repository.ErrProjectNotFound
		}
		if project.ClientID != client.ID {
			return invalidInput(fmt.Errorf("project %s does not belong to client %s", project.ID, client.ID))
		}
	}

	creator, err := s.repos.Users.ByID(ctx, input.CreatedByID)
	if err != nil {
		return fmt.Errorf("failed to get creator: %w", err)
	}
	if !creator.IsAvailable() {
		return invalidInput(fmt.Errorf("user %s is not active", creator.ID))
	}

	return nil
}

func (s *RFIService) ByID(ctx context.Context, id string) (*model.RFI, error) {
	rfi, err := s.repos.RFIs.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfi.DeletedAt != nil {
		return nil, repository.ErrRFINotFound
	}
	return rfi, nil
}

func (s *RFIService) Update(ctx context.Context, id string, update model.RFIUpdate) (*model.RFI, error) {
	if err := validation.Struct(update); err != nil {
		return nil, invalidInput(err)
	}

	err := s.repos.RFIs.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update rfi: %w", err)
	}
	return s.repos.RFIs.ByID(ctx, id)
}
