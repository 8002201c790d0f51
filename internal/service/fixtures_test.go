package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/buildline/rfitrack/internal/db/dbtest"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type harness struct {
	ctx       context.Context
	db        *sqlx.DB
	repos     *repository.Repositories
	store     *storage.LocalStorage
	uploadDir string
	deletion  *DeletionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	database := dbtest.New(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8090/uploads")
	require.NoError(t, err)

	repos := repository.New(database)
	return &harness{
		ctx:       context.Background(),
		db:        database,
		repos:     repos,
		store:     store,
		uploadDir: dir,
		deletion:  NewDeletionService(repos, store),
	}
}

func (h *harness) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{
		Email:  strings.ToLower(name) + "@buildline.test",
		Name:   name,
		Role:   model.UserRoleStaff,
		Active: true,
	}
	require.NoError(t, h.repos.Users.Create(h.ctx, u))
	return u
}

func (h *harness) client(t *testing.T, name string) *model.Client {
	t.Helper()
	c := &model.Client{Name: name, Active: true}
	require.NoError(t, h.repos.Clients.Create(h.ctx, c))
	return c
}

func (h *harness) project(t *testing.T, client *model.Client, name string, manager *model.User) *model.Project {
	t.Helper()
	p := &model.Project{ClientID: client.ID, Name: name, Active: true}
	if manager != nil {
		p.ManagerID = &manager.ID
	}
	require.NoError(t, h.repos.Projects.Create(h.ctx, p))
	return p
}

// rfi files an RFI under project, or directly against client when project is nil.
func (h *harness) rfi(t *testing.T, client *model.Client, project *model.Project, creator *model.User) *model.RFI {
	t.Helper()
	var projectID *string
	if project != nil {
		projectID = &project.ID
	}
	number, err := h.repos.RFIs.NextNumber(h.ctx, client.ID, projectID)
	require.NoError(t, err)

	r := &model.RFI{
		RFINumber:   number,
		ClientID:    client.ID,
		ProjectID:   projectID,
		CreatedByID: creator.ID,
		Title:       fmt.Sprintf("Clarify detail %d", number),
	}
	require.NoError(t, h.repos.RFIs.Create(h.ctx, r))
	return r
}

// attachment writes a stored file and its row.
func (h *harness) attachment(t *testing.T, rfi *model.RFI, filename string) *model.Attachment {
	t.Helper()
	a := &model.Attachment{
		RFIID:      rfi.ID,
		StoredName: "attachments/" + uuid.New().String() + filepath.Ext(filename),
		Filename:   filename,
		MimeType:   "application/pdf",
		Size:       4,
	}
	require.NoError(t, h.store.Save(h.ctx, a.StoredName, strings.NewReader("%PDF")))
	require.NoError(t, h.repos.Attachments.Create(h.ctx, a))
	return a
}

func (h *harness) response(t *testing.T, rfi *model.RFI, author *model.User) *model.Response {
	t.Helper()
	r := &model.Response{RFIID: rfi.ID, Body: "See revised drawing."}
	if author != nil {
		r.AuthorID = &author.ID
	}
	require.NoError(t, h.repos.Responses.Create(h.ctx, r))
	return r
}

func (h *harness) emails(t *testing.T, rfi *model.RFI, logs, queued int) {
	t.Helper()
	for i := 0; i < logs; i++ {
		require.NoError(t, h.repos.EmailLogs.Create(h.ctx, &model.EmailLog{
			RFIID: rfi.ID, Recipient: "pm@client.test", Subject: "New RFI", Status: "sent",
		}))
	}
	for i := 0; i < queued; i++ {
		require.NoError(t, h.repos.EmailQueue.Enqueue(h.ctx, &model.EmailQueueEntry{
			RFIID: rfi.ID, Recipient: "pm@client.test", Subject: "Reminder", Body: "Due soon",
		}))
	}
}

func (h *harness) contact(t *testing.T, client *model.Client, email string) *model.Contact {
	t.Helper()
	c := &model.Contact{ClientID: client.ID, Name: email, Email: email}
	require.NoError(t, h.repos.Contacts.Create(h.ctx, c))
	return c
}

func (h *harness) stakeholder(t *testing.T, project *model.Project, contact *model.Contact, addedBy *model.User) {
	t.Helper()
	s := &model.ProjectStakeholder{ProjectID: project.ID, ContactID: contact.ID}
	if addedBy != nil {
		s.AddedByID = &addedBy.ID
	}
	require.NoError(t, h.repos.Stakeholders.Create(h.ctx, s))
}

func (h *harness) accessRequest(t *testing.T, project *model.Project, contact *model.Contact) {
	t.Helper()
	require.NoError(t, h.repos.AccessRequests.Create(h.ctx, &model.AccessRequest{
		ProjectID: project.ID, ContactID: contact.ID,
	}))
}

func (h *harness) token(t *testing.T, contactID *string, email string) {
	t.Helper()
	require.NoError(t, h.repos.RegistrationTokens.Create(h.ctx, &model.RegistrationToken{
		ContactID: contactID, Email: email, ExpiresAt: time.Now().Add(72 * time.Hour),
	}))
}

// rows counts rows of table matching where (? placeholders).
func (h *harness) rows(t *testing.T, table, where string, args ...any) int {
	t.Helper()
	var n int
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	require.NoError(t, h.db.Get(&n, h.db.Rebind(query), args...))
	return n
}

func (h *harness) fileExists(a *model.Attachment) bool {
	_, err := os.Stat(filepath.Join(h.uploadDir, filepath.FromSlash(a.StoredName)))
	return err == nil
}

func (h *harness) removeFile(t *testing.T, a *model.Attachment) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(h.uploadDir, filepath.FromSlash(a.StoredName))))
}

// failingRFIs fails Delete for one RFI id.
type failingRFIs struct {
	repository.RFIRepository
	failID string
}

func (f failingRFIs) Delete(ctx context.Context, id string) error {
	if id == f.failID {
		return errBoom
	}
	return f.RFIRepository.Delete(ctx, id)
}

// failingAttachments fails every Create.
type failingAttachments struct {
	repository.AttachmentRepository
}

func (failingAttachments) Create(context.Context, *model.Attachment) error {
	return errBoom
}

// mockStorage records storage calls; expectations are set per test.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Save(ctx context.Context, key string, file io.Reader) error {
	return m.Called(ctx, key, file).Error(0)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) URL(key string) string {
	return m.Called(key).String(0)
}
