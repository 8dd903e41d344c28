package handlers

import (
	"context"
	"net/http"

	"blog/internal/models"
)

type contextKey string

const userCtxKey contextKey = "currentUser"

// LoadUser resolves the session to a user once per request and caches
// the result in the request context, so every handler and template in
// the request sees the same view of "current user".
func (h *Handler) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := h.sessions.CurrentUser(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userCtxKey, u))
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user cached by LoadUser, or nil for
// anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userCtxKey).(*models.User)
	return u
}

// RequireAuth sends anonymous requests to the login page instead of
// invoking the protected handler.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
