package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blog/internal/common"
)

// Credentials registers users and verifies their passwords. Only the
// bcrypt hash ever reaches the store.
type Credentials struct {
	db *sql.DB
}

func NewCredentials(db *sql.DB) *Credentials {
	return &Credentials{db: db}
}

// Register creates a new user. An empty username or password fails
// before touching the store; a taken username surfaces as
// common.ErrDuplicateUsername.
func (c *Credentials) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrEmptyField
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `INSERT INTO user(username, password) VALUES(?, ?)`, username, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Verify checks a username/password pair and returns the user id.
// Unknown usernames and wrong passwords both come back as
// common.ErrInvalidCredentials so callers can't tell them apart.
func (c *Credentials) Verify(ctx context.Context, username, password string) (int64, error) {
	var id int64
	var hash string
	err := c.db.QueryRowContext(ctx, `SELECT id, password FROM user WHERE username = ?`, username).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrInvalidCredentials
	} else if err != nil {
		return 0, fmt.Errorf("select user: %w", err)
	}

	if !CheckPassword(password, hash) {
		return 0, common.ErrInvalidCredentials
	}
	return id, nil
}
