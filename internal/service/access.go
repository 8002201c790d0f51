package service

import (
	"context"
	"fmt"

	"github.com/buildline/rfitrack/internal/model"
)

// CanManageProject reports whether user may archive or edit a project.
// Admins may manage every project, managers only the ones they lead.
func (s *LifecycleService) CanManageProject(ctx context.Context, user *model.User, projectID string) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	project, err := s.repos.Projects.ByID(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to get project: %w", err)
	}
	return project.IsManagedBy(user.ID), nil
}

// CanManageRFI applies CanManageProject to the RFI's project. Direct client
// RFIs are admin only.
func (s *LifecycleService) CanManageRFI(ctx context.Context, user *model.User, rfiID string) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	rfi, err := s.repos.RFIs.ByID(ctx, rfiID)
	if err != nil {
		return false, fmt.Errorf("failed to get rfi: %w", err)
	}
	if rfi.IsDirect() {
		return false, nil
	}
	return s.CanManageProject(ctx, user, *rfi.ProjectID)
}
