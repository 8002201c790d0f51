package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/buildline/rfitrack/internal/ctxkeys"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/service"
	"github.com/buildline/rfitrack/internal/softdelete"
)

// LifecycleHandler serves archive (soft delete), listing and PATCH routes.
type LifecycleHandler struct {
	lifecycleService *service.LifecycleService
	rfiService       *service.RFIService
}

func NewLifecycleHandler(lifecycleService *service.LifecycleService, rfiService *service.RFIService) *LifecycleHandler {
	return &LifecycleHandler{
		lifecycleService: lifecycleService,
		rfiService:       rfiService,
	}
}

func (h *LifecycleHandler) ArchiveClient(w http.ResponseWriter, r *http.Request) {
	h.archive(w, r, "client", h.lifecycleService.SoftDeleteClient)
}

func (h *LifecycleHandler) ArchiveContact(w http.ResponseWriter, r *http.Request) {
	h.archive(w, r, "contact", h.lifecycleService.SoftDeleteContact)
}

func (h *LifecycleHandler) ArchiveUser(w http.ResponseWriter, r *http.Request) {
	if current := ctxkeys.User(r.Context()); current != nil && current.ID == r.PathValue("id") {
		writeError(w, http.StatusBadRequest, "you cannot archive your own account")
		return
	}
	h.archive(w, r, "user", h.lifecycleService.SoftDeleteUser)
}

// ArchiveProject is open to admins and the project's manager.
func (h *LifecycleHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "project", h.lifecycleService.CanManageProject) {
		return
	}
	h.archive(w, r, "project", h.lifecycleService.SoftDeleteProject)
}

func (h *LifecycleHandler) ArchiveRFI(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "rfi", h.lifecycleService.CanManageRFI) {
		return
	}
	h.archive(w, r, "rfi", h.lifecycleService.SoftDeleteRFI)
}

func (h *LifecycleHandler) archive(w http.ResponseWriter, r *http.Request, entity string, softDelete func(context.Context, string) error) {
	id := r.PathValue("id")
	err := softDelete(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "archive "+entity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "entity": entity, "id": id})
}

func (h *LifecycleHandler) authorize(w http.ResponseWriter, r *http.Request, entity string, can func(context.Context, *model.User, string) (bool, error)) bool {
	ok, err := can(r.Context(), ctxkeys.User(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "authorize "+entity)
		return false
	}
	if !ok {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// activeFilter turns ?active=true|false into a predicate on the active column.
func activeFilter(r *http.Request) (softdelete.Predicate, bool) {
	v := r.URL.Query().Get("active")
	if v == "" {
		return softdelete.Predicate{}, true
	}
	active, err := strconv.ParseBool(v)
	if err != nil {
		return softdelete.Predicate{}, false
	}
	return softdelete.Eq("active", active), true
}

func (h *LifecycleHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	filter, ok := activeFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "active must be true or false")
		return
	}
	clients, err := h.lifecycleService.Clients(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, "list clients")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(clients))
}

func (h *LifecycleHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter, ok := activeFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "active must be true or false")
		return
	}
	projects, err := h.lifecycleService.ProjectsByClient(r.Context(), r.PathValue("id"), filter)
	if err != nil {
		respondError(w, r, err, "list projects")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(projects))
}

func (h *LifecycleHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.lifecycleService.ContactsByClient(r.Context(), r.PathValue("id"), softdelete.Predicate{})
	if err != nil {
		respondError(w, r, err, "list contacts")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(contacts))
}

func (h *LifecycleHandler) ListRFIs(w http.ResponseWriter, r *http.Request) {
	var filter softdelete.Predicate
	if status := r.URL.Query().Get("status"); status != "" {
		filter = softdelete.Eq("status", status)
	}
	rfis, err := h.lifecycleService.RFIsByProject(r.Context(), r.PathValue("id"), filter)
	if err != nil {
		respondError(w, r, err, "list rfis")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rfis))
}

func (h *LifecycleHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, ok := activeFilter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "active must be true or false")
		return
	}
	users, err := h.lifecycleService.Users(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, "list users")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (h *LifecycleHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	update, ok := decodeUpdate[model.ClientUpdate](w, r)
	if !ok {
		return
	}
	client, err := h.lifecycleService.UpdateClient(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respondError(w, r, err, "update client")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *LifecycleHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "project", h.lifecycleService.CanManageProject) {
		return
	}
	update, ok := decodeUpdate[model.ProjectUpdate](w, r)
	if !ok {
		return
	}
	project, err := h.lifecycleService.UpdateProject(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respondError(w, r, err, "update project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *LifecycleHandler) UpdateRFI(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "rfi", h.lifecycleService.CanManageRFI) {
		return
	}
	update, ok := decodeUpdate[model.RFIUpdate](w, r)
	if !ok {
		return
	}
	rfi, err := h.rfiService.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respondError(w, r, err, "update rfi")
		return
	}
	writeJSON(w, http.StatusOK, rfi)
}
