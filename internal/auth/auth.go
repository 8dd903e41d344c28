// Package auth holds the credential manager and the session guard.
// Sessions are opaque uuid tokens kept in a session table and carried
// by an HttpOnly cookie.
package auth

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"

	"blog/internal/models"
)

const sessionCookie = "blog_session"

type Manager struct {
	db     *sql.DB
	maxAge time.Duration
}

func NewManager(db *sql.DB, maxAge time.Duration) *Manager {
	return &Manager{db: db, maxAge: maxAge}
}

// Create establishes a session for userID and sets the cookie on w.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID int64) error {
	id := uuid.New().String()
	expires := time.Now().Add(m.maxAge)

	_, err := m.db.ExecContext(ctx, `INSERT INTO session(id, user_id, expires_at) VALUES(?, ?, ?)`, id, userID, expires)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	return nil
}

// Destroy clears the session row and expires the cookie. Safe to call
// without a valid session.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie(sessionCookie)
	if c != nil && c.Value != "" {
		m.db.ExecContext(r.Context(), `DELETE FROM session WHERE id = ?`, c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// CurrentUser resolves the request's session token to a user. Any
// failure (no cookie, unknown or expired token, deleted user) degrades
// to anonymous rather than an error.
func (m *Manager) CurrentUser(r *http.Request) (*models.User, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	var u models.User
	var exp time.Time
	err = m.db.QueryRowContext(r.Context(),
		`SELECT u.id, u.username, u.password, s.expires_at
		 FROM session s JOIN user u ON u.id = s.user_id WHERE s.id = ?`, c.Value).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &exp)
	if err != nil || time.Now().After(exp) {
		return nil, false
	}
	return &u, true
}
