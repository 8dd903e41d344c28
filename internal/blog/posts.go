// Package blog implements post storage and the author-ownership check
// that guards every mutation.
package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog/internal/common"
	"blog/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns all posts joined with the author username, newest
// first. Works the same for anonymous and logged-in callers.
func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.body, p.created, u.username
		 FROM post p JOIN user u ON p.author_id = u.id
		 ORDER BY p.created DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Created, &p.Author); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Get fetches a post by id without any author check. Missing posts
// come back as common.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.body, p.created, u.username
		 FROM post p JOIN user u ON p.author_id = u.id WHERE p.id = ?`, id).
		Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Created, &p.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	return &p, nil
}

// GetForAuthor is the gate in front of update and delete: it fetches
// the post and returns common.ErrForbidden unless authorID wrote it.
func (s *Store) GetForAuthor(ctx context.Context, id, authorID int64) (*models.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != authorID {
		return nil, common.ErrForbidden
	}
	return p, nil
}

// Create inserts a post for authorID. The created timestamp is set
// here, once, and never rewritten.
func (s *Store) Create(ctx context.Context, authorID int64, title, body string) (int64, error) {
	if title == "" {
		return 0, common.ErrEmptyTitle
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO post(author_id, title, body, created) VALUES(?, ?, ?, ?)`, authorID, title, body, time.Now())
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return res.LastInsertId()
}

// Update rewrites title and body of a post owned by authorID. The
// author check runs before any validation touches the row.
func (s *Store) Update(ctx context.Context, id, authorID int64, title, body string) error {
	if _, err := s.GetForAuthor(ctx, id, authorID); err != nil {
		return err
	}
	if title == "" {
		return common.ErrEmptyTitle
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE post SET title = ?, body = ? WHERE id = ?`, title, body, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post owned by authorID.
func (s *Store) Delete(ctx context.Context, id, authorID int64) error {
	if _, err := s.GetForAuthor(ctx, id, authorID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM post WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
