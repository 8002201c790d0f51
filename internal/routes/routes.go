package routes

import (
	"net/http"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/handler"
	"github.com/buildline/rfitrack/internal/middleware"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	deletion := handler.NewDeletionHandler(app.DeletionService)
	lifecycle := handler.NewLifecycleHandler(app.LifecycleService, app.RFIService)
	rfi := handler.NewRFIHandler(app.RFIService, app.AttachmentService)

	requireAuth := middleware.RequireAuth
	requireAdmin := middleware.RequireRole(model.UserRoleAdmin)
	requireManager := middleware.RequireRole(model.UserRoleAdmin, model.UserRoleManager)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimitLogin()(auth.Login))

	// Local attachment files; S3 serves presigned links instead
	if app.Cfg.StorageDriver == storage.DriverLocal || app.Cfg.StorageDriver == "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.UploadDir)))
		mux.HandleFunc("GET /uploads/", requireAuth(files.ServeHTTP))
	}

	// ============================================================================
	// AUTHENTICATED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/me", requireAuth(auth.Me))

	// Listing
	mux.HandleFunc("GET /api/clients", requireAuth(lifecycle.ListClients))
	mux.HandleFunc("GET /api/clients/{id}/projects", requireAuth(lifecycle.ListProjects))
	mux.HandleFunc("GET /api/clients/{id}/contacts", requireAuth(lifecycle.ListContacts))
	mux.HandleFunc("GET /api/projects/{id}/rfis", requireAuth(lifecycle.ListRFIs))
	mux.HandleFunc("GET /api/users", requireAdmin(lifecycle.ListUsers))

	// RFIs and attachments
	mux.HandleFunc("POST /api/rfis", requireAuth(rfi.Create))
	mux.HandleFunc("GET /api/rfis/{id}", requireAuth(rfi.Get))
	mux.HandleFunc("GET /api/rfis/{id}/attachments", requireAuth(rfi.ListAttachments))
	mux.HandleFunc("POST /api/rfis/{id}/attachments", requireAuth(rfi.UploadAttachment))

	// Updates
	mux.HandleFunc("PATCH /api/clients/{id}", requireAdmin(lifecycle.UpdateClient))
	mux.HandleFunc("PATCH /api/projects/{id}", requireManager(lifecycle.UpdateProject))
	mux.HandleFunc("PATCH /api/rfis/{id}", requireManager(lifecycle.UpdateRFI))

	// Archive (soft delete)
	mux.HandleFunc("POST /api/clients/{id}/archive", requireAdmin(lifecycle.ArchiveClient))
	mux.HandleFunc("POST /api/contacts/{id}/archive", requireAdmin(lifecycle.ArchiveContact))
	mux.HandleFunc("POST /api/users/{id}/archive", requireAdmin(lifecycle.ArchiveUser))
	mux.HandleFunc("POST /api/projects/{id}/archive", requireManager(lifecycle.ArchiveProject))
	mux.HandleFunc("POST /api/rfis/{id}/archive", requireManager(lifecycle.ArchiveRFI))

	// ============================================================================
	// HARD DELETE (admin only)
	// ============================================================================

	mux.HandleFunc("GET /api/rfis/{id}/deletion-preview", requireAdmin(deletion.PreviewRFI))
	mux.HandleFunc("GET /api/projects/{id}/deletion-preview", requireAdmin(deletion.PreviewProject))
	mux.HandleFunc("GET /api/clients/{id}/deletion-preview", requireAdmin(deletion.PreviewClient))
	mux.HandleFunc("GET /api/users/{id}/deletion-preview", requireAdmin(deletion.PreviewUser))

	mux.HandleFunc("DELETE /api/rfis/{id}", requireAdmin(deletion.DeleteRFI))
	mux.HandleFunc("DELETE /api/projects/{id}", requireAdmin(deletion.DeleteProject))
	mux.HandleFunc("DELETE /api/clients/{id}", requireAdmin(deletion.DeleteClient))
	mux.HandleFunc("DELETE /api/users/{id}", requireAdmin(deletion.DeleteUser))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)
}
