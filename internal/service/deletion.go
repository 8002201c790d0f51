package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/buildline/rfitrack/internal/validation"
)

// DeletionService hard-deletes a root entity together with everything that
// depends on it. Children go before parents. Stored files are removed best
// effort and failures are collected in the report, while database errors
// abort the cascade without rolling back steps already applied.
//
// Callers are responsible for authorization.
type DeletionService struct {
	repos   *repository.Repositories
	storage storage.Storage
}

func NewDeletionService(repos *repository.Repositories, storage storage.Storage) *DeletionService {
	return &DeletionService{
		repos:   repos,
		storage: storage,
	}
}

// DeleteRFI removes an RFI, its attachments (rows and files), responses,
// email logs and queued emails.
func (s *DeletionService) DeleteRFI(ctx context.Context, rfiID string) (*DeletionReport, error) {
	rfi, err := s.repos.RFIs.ByID(ctx, rfiID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfi: %w", err)
	}

	report, err := s.deleteRFI(ctx, rfi)
	if err != nil {
		return nil, err
	}
	report.Success = true

	slog.Info("rfi deleted",
		"rfi_id", rfi.ID,
		"deleted_files", len(report.DeletedFiles),
		"file_errors", len(report.FileErrors),
	)
	return report, nil
}

func (s *DeletionService) deleteRFI(ctx context.Context, rfi *model.RFI) (*DeletionReport, error) {
	report := newDeletionReport("rfi", rfiName(rfi))

	attachments, err := s.repos.Attachments.ByRFI(ctx, rfi.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments of rfi %s: %w", rfi.ID, err)
	}

	for _, attachment := range attachments {
		err := s.storage.Delete(ctx, attachment.StoredName)
		if err != nil {
			slog.Warn("failed to delete attachment file",
				"rfi_id", rfi.ID,
				"stored_name", attachment.StoredName,
				"error", err,
			)
			report.FileErrors = append(report.FileErrors, FileError{
				StoredName: attachment.StoredName,
				Filename:   attachment.Filename,
				Err:        err,
			})
			continue
		}
		report.DeletedFiles = append(report.DeletedFiles, attachment.Filename)
	}

	counts := &report.DeletedRecords
	steps := []struct {
		what  string
		del   func(context.Context, string) (int64, error)
		count *int
	}{
		{"email logs", s.repos.EmailLogs.DeleteByRFI, &counts.EmailLogs},
		{"email queue", s.repos.EmailQueue.DeleteByRFI, &counts.EmailQueue},
		{"responses", s.repos.Responses.DeleteByRFI, &counts.Responses},
		{"attachments", s.repos.Attachments.DeleteByRFI, &counts.Attachments},
	}
	for _, step := range steps {
		n, err := step.del(ctx, rfi.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete %s of rfi %s: %w", step.what, rfi.ID, err)
		}
		*step.count = int(n)
	}

	err = s.repos.RFIs.Delete(ctx, rfi.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rfi %s: %w", rfi.ID, err)
	}
	counts.RFIs = 1

	return report, nil
}

// DeleteProject removes a project, every RFI filed under it, its access
// requests and its stakeholder links. The first failing RFI aborts the rest.
func (s *DeletionService) DeleteProject(ctx context.Context, projectID string) (*DeletionReport, error) {
	project, err := s.repos.Projects.ByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	report, err := s.deleteProject(ctx, project)
	if err != nil {
		return nil, err
	}
	report.Success = true

	slog.Info("project deleted",
		"project_id", project.ID,
		"rfis", report.DeletedRecords.RFIs,
		"deleted_files", len(report.DeletedFiles),
		"file_errors", len(report.FileErrors),
	)
	return report, nil
}

func (s *DeletionService) deleteProject(ctx context.Context, project *model.Project) (*DeletionReport, error) {
	report := newDeletionReport("project", project.Name)

	rfis, err := s.repos.RFIs.ByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfis of project %s: %w", project.ID, err)
	}

	for _, rfi := range rfis {
		child, err := s.deleteRFI(ctx, rfi)
		if err != nil {
			return nil, err
		}
		report.merge(child)
	}

	n, err := s.repos.AccessRequests.DeleteByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete access requests of project %s: %w", project.ID, err)
	}
	report.DeletedRecords.AccessRequests += int(n)

	n, err = s.repos.Stakeholders.DeleteByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stakeholders of project %s: %w", project.ID, err)
	}
	report.DeletedRecords.Stakeholders += int(n)

	err = s.repos.Projects.Delete(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete project %s: %w", project.ID, err)
	}
	report.DeletedRecords.Projects++

	return report, nil
}

// DeleteClient removes a client with all of its projects, direct RFIs and
// contacts. Stakeholder links and access requests that the client's contacts
// hold on other clients' projects are removed explicitly, as are
// registration tokens issued to those contacts by id or by email.
func (s *DeletionService) DeleteClient(ctx context.Context, clientID string) (*DeletionReport, error) {
	client, err := s.repos.Clients.ByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	report := newDeletionReport("client", client.Name)

	projects, err := s.repos.Projects.ByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects of client %s: %w", client.ID, err)
	}
	for _, project := range projects {
		child, err := s.deleteProject(ctx, project)
		if err != nil {
			return nil, err
		}
		report.merge(child)
	}

	// Whatever is left after the projects are gone is not covered by them,
	// which includes the direct RFIs.
	rfis, err := s.repos.RFIs.ByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rfis of client %s: %w", client.ID, err)
	}
	for _, rfi := range rfis {
		child, err := s.deleteRFI(ctx, rfi)
		if err != nil {
			return nil, err
		}
		report.merge(child)
	}

	n, err := s.repos.Stakeholders.DeleteByClientContacts(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stakeholder links of client %s contacts: %w", client.ID, err)
	}
	report.DeletedRecords.Stakeholders += int(n)

	n, err = s.repos.AccessRequests.DeleteByClientContacts(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete access requests of client %s contacts: %w", client.ID, err)
	}
	report.DeletedRecords.AccessRequests += int(n)

	emails, err := s.contactEmails(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	n, err = s.repos.RegistrationTokens.DeleteByClientContacts(ctx, client.ID, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to delete registration tokens of client %s: %w", client.ID, err)
	}
	report.DeletedRecords.RegistrationTokens += int(n)

	n, err = s.repos.Contacts.DeleteByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete contacts of client %s: %w", client.ID, err)
	}
	report.DeletedRecords.Contacts += int(n)

	err = s.repos.Clients.Delete(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete client %s: %w", client.ID, err)
	}
	report.DeletedRecords.Clients++
	report.Success = true

	slog.Info("client deleted",
		"client_id", client.ID,
		"projects", report.DeletedRecords.Projects,
		"rfis", report.DeletedRecords.RFIs,
		"deleted_files", len(report.DeletedFiles),
		"file_errors", len(report.FileErrors),
	)
	return report, nil
}

// contactEmails returns the normalized, de-duplicated emails of a client's contacts.
func (s *DeletionService) contactEmails(ctx context.Context, clientID string) ([]string, error) {
	contacts, err := s.repos.Contacts.ByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts of client %s: %w", clientID, err)
	}

	seen := make(map[string]bool, len(contacts))
	emails := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		email := validation.NormalizeEmail(contact.Email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails, nil
}

// DeleteUser removes a staff user. With reassignTo set, every project,
// RFI, response and stakeholder link pointing at the user is moved to that
// user. Without it the weak references are cleared, which is refused with a
// *DependencyConflictError while the user still created any RFI. The check
// runs before the first write.
func (s *DeletionService) DeleteUser(ctx context.Context, userID string, reassignTo *string) (*UserDeletionReport, error) {
	user, err := s.repos.Users.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	affected, err := s.affectedRecords(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if reassignTo != nil {
		err = s.checkReassignTarget(ctx, user.ID, *reassignTo)
		if err != nil {
			return nil, err
		}
		err = s.reassignUser(ctx, user.ID, *reassignTo)
	} else {
		if affected.RFIs > 0 {
			return nil, &DependencyConflictError{
				Entity:      "user",
				ID:          user.ID,
				Dependents:  "RFIs",
				Count:       affected.RFIs,
				Remediation: "reassign to another user or delete the RFIs first",
			}
		}
		err = s.orphanUser(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	err = s.repos.Users.Delete(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user %s: %w", user.ID, err)
	}

	if reassignTo != nil {
		slog.Info("user deleted", "user_id", user.ID, "reassigned_to", *reassignTo)
	} else {
		slog.Info("user deleted", "user_id", user.ID, "orphaned", true)
	}
	return &UserDeletionReport{
		Success:         true,
		UserName:        user.Name,
		UserEmail:       user.Email,
		ReassignedTo:    reassignTo,
		AffectedRecords: *affected,
	}, nil
}

func (s *DeletionService) affectedRecords(ctx context.Context, userID string) (*AffectedRecords, error) {
	var affected AffectedRecords
	var err error

	affected.RFIs, err = s.repos.RFIs.CountByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfis of user %s: %w", userID, err)
	}
	affected.Projects, err = s.repos.Projects.CountByManager(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects of user %s: %w", userID, err)
	}
	affected.Responses, err = s.repos.Responses.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses of user %s: %w", userID, err)
	}
	affected.Stakeholders, err = s.repos.Stakeholders.CountByAddedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count stakeholder links of user %s: %w", userID, err)
	}

	return &affected, nil
}

// checkReassignTarget requires an existing, active user other than userID.
func (s *DeletionService) checkReassignTarget(ctx context.Context, userID, targetID string) error {
	if targetID == userID {
		return fmt.Errorf("%w: cannot reassign to the user being deleted", ErrInvalidReassignTarget)
	}

	target, err := s.repos.Users.ByID(ctx, targetID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%w: user %s does not exist", ErrInvalidReassignTarget, targetID)
	}
	if err != nil {
		return fmt.Errorf("failed to get reassignment target: %w", err)
	}
	if !target.IsAvailable() {
		return fmt.Errorf("%w: user %s is not active", ErrInvalidReassignTarget, targetID)
	}

	return nil
}

func (s *DeletionService) reassignUser(ctx context.Context, fromID, toID string) error {
	steps := []struct {
		what     string
		reassign func(context.Context, string, string) (int64, error)
	}{
		{"projects", s.repos.Projects.ReassignManager},
		{"rfis", s.repos.RFIs.ReassignCreator},
		{"responses", s.repos.Responses.ReassignAuthor},
		{"stakeholder links", s.repos.Stakeholders.ReassignAddedBy},
	}
	for _, step := range steps {
		_, err := step.reassign(ctx, fromID, toID)
		if err != nil {
			return fmt.Errorf("failed to reassign %s of user %s: %w", step.what, fromID, err)
		}
	}
	return nil
}

func (s *DeletionService) orphanUser(ctx context.Context, userID string) error {
	steps := []struct {
		what  string
		clear func(context.Context, string) (int64, error)
	}{
		{"projects", s.repos.Projects.ClearManager},
		{"responses", s.repos.Responses.ClearAuthor},
		{"stakeholder links", s.repos.Stakeholders.ClearAddedBy},
	}
	for _, step := range steps {
		_, err := step.clear(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to clear %s of user %s: %w", step.what, userID, err)
		}
	}
	return nil
}

func rfiName(rfi *model.RFI) string {
	return fmt.Sprintf("RFI #%d: %s", rfi.RFINumber, rfi.Title)
}
