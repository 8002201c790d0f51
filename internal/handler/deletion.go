package handler

import (
	"context"
	"net/http"

	"github.com/buildline/rfitrack/internal/ctxkeys"
	"github.com/buildline/rfitrack/internal/service"
)

// DeletionHandler exposes hard deletes and their previews. Routes are
// restricted to admins.
type DeletionHandler struct {
	deletionService *service.DeletionService
}

func NewDeletionHandler(deletionService *service.DeletionService) *DeletionHandler {
	return &DeletionHandler{
		deletionService: deletionService,
	}
}

// deletionResponse adds file warnings to a successful report.
type deletionResponse struct {
	*service.DeletionReport
	Warnings []string `json:"warnings"`
}

func (h *DeletionHandler) DeleteRFI(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "delete rfi", h.deletionService.DeleteRFI)
}

func (h *DeletionHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "delete project", h.deletionService.DeleteProject)
}

func (h *DeletionHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "delete client", h.deletionService.DeleteClient)
}

func (h *DeletionHandler) delete(w http.ResponseWriter, r *http.Request, action string, del func(context.Context, string) (*service.DeletionReport, error)) {
	report, err := del(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, action)
		return
	}
	writeJSON(w, http.StatusOK, deletionResponse{DeletionReport: report, Warnings: report.Warnings()})
}

// DeleteUser deletes a staff user. ?reassign_to=<id> moves the user's
// records to another user instead of clearing them.
func (h *DeletionHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if current := ctxkeys.User(r.Context()); current != nil && current.ID == userID {
		writeError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	var reassignTo *string
	if target := r.URL.Query().Get("reassign_to"); target != "" {
		reassignTo = &target
	}

	report, err := h.deletionService.DeleteUser(r.Context(), userID, reassignTo)
	if err != nil {
		respondError(w, r, err, "delete user")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *DeletionHandler) PreviewRFI(w http.ResponseWriter, r *http.Request) {
	h.preview(w, r, "preview rfi deletion", h.deletionService.PreviewRFI)
}

func (h *DeletionHandler) PreviewProject(w http.ResponseWriter, r *http.Request) {
	h.preview(w, r, "preview project deletion", h.deletionService.PreviewProject)
}

func (h *DeletionHandler) PreviewClient(w http.ResponseWriter, r *http.Request) {
	h.preview(w, r, "preview client deletion", h.deletionService.PreviewClient)
}

func (h *DeletionHandler) preview(w http.ResponseWriter, r *http.Request, action string, preview func(context.Context, string) (*service.RecordCounts, error)) {
	counts, err := preview(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, action)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"would_delete": counts})
}

func (h *DeletionHandler) PreviewUser(w http.ResponseWriter, r *http.Request) {
	affected, err := h.deletionService.PreviewUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "preview user deletion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"affected_records":      affected,
		"requires_reassignment": affected.RFIs > 0,
	})
}
