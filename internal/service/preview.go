package service

import (
	"context"
	"fmt"

	"github.com/buildline/rfitrack/internal/model"
)

// Previews count what the matching Delete call would remove, so callers can
// confirm before anything is written.

func (s *DeletionService) PreviewRFI(ctx context.Context, rfiID string) (*RecordCounts, error) {
	rfi, err := s.repos.RFIs.ByID(ctx, rfiID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfi: %w", err)
	}
	return s.previewRFI(ctx, rfi.ID)
}

func (s *DeletionService) previewRFI(ctx context.Context, rfiID string) (*RecordCounts, error) {
	counts := &RecordCounts{RFIs: 1}
	steps := []struct {
		what  string
		count func(context.Context, string) (int, error)
		into  *int
	}{
		{"attachments", s.repos.Attachments.CountByRFI, &counts.Attachments},
		{"responses", s.repos.Responses.CountByRFI, &counts.Responses},
		{"email logs", s.repos.EmailLogs.CountByRFI, &counts.EmailLogs},
		{"email queue", s.repos.EmailQueue.CountByRFI, &counts.EmailQueue},
	}
	for _, step := range steps {
		n, err := step.count(ctx, rfiID)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s of rfi %s: %w", step.what, rfiID, err)
		}
		*step.into = n
	}
	return counts, nil
}

func (s *DeletionService) PreviewProject(ctx context.Context, projectID string) (*RecordCounts, error) {
	project, err := s.repos.Projects.ByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return s.previewProject(ctx, project)
}

func (s *DeletionService) previewProject(ctx context.Context, project *model.Project) (*RecordCounts, error) {
	counts := &RecordCounts{Projects: 1}

	rfis, err := s.repos.RFIs.ByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfis of project %s: %w", project.ID, err)
	}
	for _, rfi := range rfis {
		child, err := s.previewRFI(ctx, rfi.ID)
		if err != nil {
			return nil, err
		}
		counts.Add(*child)
	}

	counts.AccessRequests, err = s.repos.AccessRequests.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count access requests of project %s: %w", project.ID, err)
	}
	counts.Stakeholders, err = s.repos.Stakeholders.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count stakeholders of project %s: %w", project.ID, err)
	}

	return counts, nil
}

func (s *DeletionService) PreviewClient(ctx context.Context, clientID string) (*RecordCounts, error) {
	client, err := s.repos.Clients.ByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	counts := &RecordCounts{Clients: 1}

	projects, err := s.repos.Projects.ByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects of client %s: %w", client.ID, err)
	}
	covered := make(map[string]bool, len(projects))
	for _, project := range projects {
		child, err := s.previewProject(ctx, project)
		if err != nil {
			return nil, err
		}
		counts.Add(*child)
		covered[project.ID] = true
	}

	rfis, err := s.repos.RFIs.ByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfis of client %s: %w", client.ID, err)
	}
	for _, rfi := range rfis {
		if rfi.ProjectID != nil && covered[*rfi.ProjectID] {
			continue
		}
		child, err := s.previewRFI(ctx, rfi.ID)
		if err != nil {
			return nil, err
		}
		counts.Add(*child)
	}

	n, err := s.repos.Stakeholders.CountByClientContacts(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count stakeholder links of client %s contacts: %w", client.ID, err)
	}
	counts.Stakeholders += n

	n, err = s.repos.AccessRequests.CountByClientContacts(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count access requests of client %s contacts: %w", client.ID, err)
	}
	counts.AccessRequests += n

	emails, err := s.contactEmails(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	counts.RegistrationTokens, err = s.repos.RegistrationTokens.CountByClientContacts(ctx, client.ID, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to count registration tokens of client %s: %w", client.ID, err)
	}

	counts.Contacts, err = s.repos.Contacts.CountByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts of client %s: %w", client.ID, err)
	}

	return counts, nil
}

func (s *DeletionService) PreviewUser(ctx context.Context, userID string) (*AffectedRecords, error) {
	user, err := s.repos.Users.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.affectedRecords(ctx, user.ID)
}
