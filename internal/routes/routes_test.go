package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/config"
	"github.com/buildline/rfitrack/internal/db/dbtest"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/service"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "tide-gauge-river-42"

type server struct {
	t         *testing.T
	app       *app.App
	handler   http.Handler
	uploadDir string
}

func newServer(t *testing.T) *server {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8090/uploads")
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:        "development",
		AppURL:        "http://localhost:8090",
		JWTSecret:     "routes-test-secret",
		JWTExpiry:     time.Hour,
		StorageDriver: storage.DriverLocal,
		UploadDir:     dir,
	}
	a := app.Assemble(cfg, dbtest.New(t), store)
	return &server{t: t, app: a, handler: SetupRoutes(a), uploadDir: dir}
}

func (s *server) user(email, role string) (*model.User, string) {
	s.t.Helper()
	user, err := s.app.AuthService.CreateUser(context.Background(), email, "Test "+role, testPassword, role)
	require.NoError(s.t, err)
	token, _, err := s.app.AuthService.GenerateJWT(user)
	require.NoError(s.t, err)
	return user, token
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// tree creates a client with one project managed by manager and one RFI.
func (s *server) tree(manager *model.User) (*model.Client, *model.Project, *model.RFI) {
	s.t.Helper()
	ctx := context.Background()
	repos := s.app.Repos

	client := &model.Client{Name: "Harbour Works", Active: true}
	require.NoError(s.t, repos.Clients.Create(ctx, client))
	project := &model.Project{ClientID: client.ID, Name: "Pier 4", ManagerID: &manager.ID, Active: true}
	require.NoError(s.t, repos.Projects.Create(ctx, project))

	rfi, err := s.app.RFIService.Create(ctx, service.NewRFI{
		ClientID:    client.ID,
		ProjectID:   &project.ID,
		CreatedByID: manager.ID,
		Title:       "Pile cap reinforcement",
	})
	require.NoError(s.t, err)
	return client, project, rfi
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	s.user("ada@buildline.test", model.UserRoleAdmin)

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ADA@buildline.test", "password": "wrong-password-value",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ADA@buildline.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	me := s.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ada@buildline.test", decode(t, me)["email"])
}

func TestDeleteRFIRequiresAdmin(t *testing.T) {
	s := newServer(t)
	manager, managerToken := s.user("mo@buildline.test", model.UserRoleManager)
	_, _, rfi := s.tree(manager)

	rec := s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, managerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteRFI(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, _ := s.user("mo@buildline.test", model.UserRoleManager)
	_, _, rfi := s.tree(manager)

	preview := s.do(http.MethodGet, "/api/rfis/"+rfi.ID+"/deletion-preview", adminToken, nil)
	require.Equal(t, http.StatusOK, preview.Code, preview.Body.String())
	counts := decode(t, preview)["would_delete"].(map[string]any)
	assert.EqualValues(t, 1, counts["rfis"])

	rec := s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rfi", body["entity"])
	assert.Equal(t, []any{}, body["warnings"])

	records := body["deleted_records"].(map[string]any)
	assert.EqualValues(t, 1, records["rfis"])
	for _, key := range []string{"responses", "attachments", "email_logs", "email_queue"} {
		require.Contains(t, records, key)
		assert.EqualValues(t, 0, records[key], key)
	}

	rec = s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRFIReportsMissingFileAsWarning(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, _ := s.user("mo@buildline.test", model.UserRoleManager)
	_, _, rfi := s.tree(manager)

	require.NoError(t, s.app.Repos.Attachments.Create(context.Background(), &model.Attachment{
		RFIID:      rfi.ID,
		StoredName: "attachments/never-written.pdf",
		Filename:   "detail.pdf",
		MimeType:   "application/pdf",
		Size:       10,
	}))

	rec := s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	warnings := body["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "detail.pdf")
	assert.Len(t, body["file_errors"], 1)
}

func TestDeleteUserConflict(t *testing.T) {
	s := newServer(t)
	admin, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, _ := s.user("mo@buildline.test", model.UserRoleManager)
	s.tree(manager)

	rec := s.do(http.MethodDelete, "/api/users/"+manager.ID, adminToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Contains(t, body["remediation"], "reassign to another user")

	preview := s.do(http.MethodGet, "/api/users/"+manager.ID+"/deletion-preview", adminToken, nil)
	require.Equal(t, http.StatusOK, preview.Code)
	assert.Equal(t, true, decode(t, preview)["requires_reassignment"])

	rec = s.do(http.MethodDelete, "/api/users/"+manager.ID+"?reassign_to="+manager.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/users/"+manager.ID+"?reassign_to="+admin.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, admin.ID, body["reassigned_to"])
}

func TestDeleteSelfRejected(t *testing.T) {
	s := newServer(t)
	admin, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)

	rec := s.do(http.MethodDelete, "/api/users/"+admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteClient(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, _ := s.user("mo@buildline.test", model.UserRoleManager)
	client, project, _ := s.tree(manager)

	rec := s.do(http.MethodDelete, "/api/clients/"+client.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	records := decode(t, rec)["deleted_records"].(map[string]any)
	assert.EqualValues(t, 1, records["clients"])
	assert.EqualValues(t, 1, records["projects"])
	assert.EqualValues(t, 1, records["rfis"])

	rec = s.do(http.MethodGet, "/api/clients/"+client.ID+"/deletion-preview", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodDelete, "/api/projects/"+project.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchiveProject(t *testing.T) {
	s := newServer(t)
	manager, managerToken := s.user("mo@buildline.test", model.UserRoleManager)
	_, otherToken := s.user("kit@buildline.test", model.UserRoleManager)
	client, project, _ := s.tree(manager)

	rec := s.do(http.MethodPost, "/api/projects/"+project.ID+"/archive", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/projects/"+project.ID+"/archive", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := s.do(http.MethodGet, "/api/clients/"+client.ID+"/projects", managerToken, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.JSONEq(t, "[]", list.Body.String())

	rec = s.do(http.MethodPost, "/api/projects/"+project.ID+"/archive", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateClient(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, _ := s.user("mo@buildline.test", model.UserRoleManager)
	client, _, _ := s.tree(manager)

	rec := s.do(http.MethodPatch, "/api/clients/"+client.ID, adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/clients/"+client.ID, adminToken, map[string]any{"id": "forged"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/clients/"+client.ID, adminToken, map[string]any{"name": "Harbour Works Ltd"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Harbour Works Ltd", decode(t, rec)["name"])
}

func TestUpdateRFIStatus(t *testing.T) {
	s := newServer(t)
	manager, managerToken := s.user("mo@buildline.test", model.UserRoleManager)
	_, _, rfi := s.tree(manager)

	rec := s.do(http.MethodPatch, "/api/rfis/"+rfi.ID, managerToken, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/rfis/"+rfi.ID, managerToken, map[string]any{"status": "answered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "answered", decode(t, rec)["status"])
}

func TestUploadAttachment(t *testing.T) {
	s := newServer(t)
	_, adminToken := s.user("ada@buildline.test", model.UserRoleAdmin)
	manager, managerToken := s.user("mo@buildline.test", model.UserRoleManager)
	_, _, rfi := s.tree(manager)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "Section A-A.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7\n" + strings.Repeat("x", 64)))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/rfis/"+rfi.ID+"/attachments", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+managerToken)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "application/pdf", body["mime_type"])
	assert.Equal(t, "Section A-A.pdf", body["filename"])

	attachments, err := s.app.Repos.Attachments.ByRFI(context.Background(), rfi.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	stored := filepath.Join(s.uploadDir, filepath.FromSlash(attachments[0].StoredName))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	del := s.do(http.MethodDelete, "/api/rfis/"+rfi.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, del.Code)
	assert.Len(t, decode(t, del)["deleted_files"], 1)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestLoginRateLimited(t *testing.T) {
	s := newServer(t)
	creds := map[string]string{"email": "nobody@buildline.test", "password": "wrong-password-value"}

	for i := 0; i < 5; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
