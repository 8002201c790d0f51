package handler

import (
	"net/http"
	"time"

	"github.com/buildline/rfitrack/internal/ctxkeys"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Login exchanges an email and password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err, "log in")
		return
	}

	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondError(w, r, err, "issue token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}
