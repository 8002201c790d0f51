package middleware

import (
	"net/http"
	"strings"

	"github.com/buildline/rfitrack/internal/ctxkeys"
	"github.com/buildline/rfitrack/internal/service"
)

// AuthMiddleware resolves an "Authorization: Bearer <jwt>" header to the
// staff user and adds it to the context. Requests without a valid token
// continue anonymously; RequireAuth and RequireRole reject them.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.CurrentUser(r.Context(), claims)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = nil

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireRole rejects users whose role is not listed with 403.
func RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			user := ctxkeys.User(r.Context())
			for _, role := range roles {
				if user.Role == role {
					next(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
