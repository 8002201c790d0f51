package service

import (
	"testing"

	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/softdelete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_SoftDeleteHidesRowOnly(t *testing.T) {
	h := newHarness(t)
	svc := NewLifecycleService(h.repos)
	author := h.user(t, "Ana")
	client := h.client(t, "Harbor Developments")
	kept := h.project(t, client, "Pier 4", author)
	archived := h.project(t, client, "Pier 5", author)
	rfi := h.rfi(t, client, archived, author)

	require.NoError(t, svc.SoftDeleteProject(h.ctx, archived.ID))

	projects, err := svc.ProjectsByClient(h.ctx, client.ID, softdelete.Predicate{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, kept.ID, projects[0].ID)

	reloaded, err := h.repos.Projects.ByID(h.ctx, archived.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.DeletedAt)
	assert.False(t, reloaded.Active)

	// Children are left alone.
	rfis, err := svc.RFIsByProject(h.ctx, archived.ID, softdelete.Predicate{})
	require.NoError(t, err)
	require.Len(t, rfis, 1)
	assert.Equal(t, rfi.ID, rfis[0].ID)
}

func TestLifecycle_SoftDeleteTwiceIsNotFound(t *testing.T) {
	h := newHarness(t)
	svc := NewLifecycleService(h.repos)
	author := h.user(t, "Ana")
	client := h.client(t, "Harbor Developments")
	contact := h.contact(t, client, "site@harbor.test")
	rfi := h.rfi(t, client, nil, author)

	tests := []struct {
		name     string
		archive  func() error
		sentinel error
	}{
		{"rfi", func() error { return svc.SoftDeleteRFI(h.ctx, rfi.ID) }, repository.ErrRFINotFound},
		{"contact", func() error { return svc.SoftDeleteContact(h.ctx, contact.ID) }, repository.ErrContactNotFound},
		{"client", func() error { return svc.SoftDeleteClient(h.ctx, client.ID) }, repository.ErrClientNotFound},
		{"user", func() error { return svc.SoftDeleteUser(h.ctx, author.ID) }, repository.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.archive())
			err := tt.archive()
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	clients, err := svc.Clients(h.ctx, softdelete.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, clients)

	users, err := svc.Users(h.ctx, softdelete.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, users)

	contacts, err := svc.ContactsByClient(h.ctx, client.ID, softdelete.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestLifecycle_ListsComposeCallerFilters(t *testing.T) {
	h := newHarness(t)
	svc := NewLifecycleService(h.repos)
	h.client(t, "Harbor Developments")
	inactive := h.client(t, "Quay Partners")
	active := false
	_, err := svc.UpdateClient(h.ctx, inactive.ID, model.ClientUpdate{Active: &active})
	require.NoError(t, err)

	clients, err := svc.Clients(h.ctx, softdelete.Eq("active", false))
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Quay Partners", clients[0].Name)
}

func TestLifecycle_UpdateProject(t *testing.T) {
	h := newHarness(t)
	svc := NewLifecycleService(h.repos)
	manager := h.user(t, "Ana")
	client := h.client(t, "Harbor Developments")
	project := h.project(t, client, "Pier 4", nil)

	name := "  Pier 4 East  "
	updated, err := svc.UpdateProject(h.ctx, project.ID, model.ProjectUpdate{Name: &name, ManagerID: &manager.ID})
	require.NoError(t, err)
	assert.Equal(t, "Pier 4 East", updated.Name)
	assert.True(t, updated.IsManagedBy(manager.ID))

	empty := ""
	_, err = svc.UpdateProject(h.ctx, project.ID, model.ProjectUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ghost := "7d1b1f5e-2a4e-4d8e-9a57-1a0f3f1f0c11"
	_, err = svc.UpdateProject(h.ctx, project.ID, model.ProjectUpdate{ManagerID: &ghost})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.SoftDeleteProject(h.ctx, project.ID))
	_, err = svc.UpdateProject(h.ctx, project.ID, model.ProjectUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}
