// Package common holds the error taxonomy shared by the auth and blog
// packages and its mapping to HTTP status codes.
package common

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyField         = errors.New("username and password are required")
	ErrEmptyTitle         = errors.New("title is required")
	ErrDuplicateUsername  = errors.New("username is already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("login required")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Unauthenticated is handled by the auth middleware as a redirect, so
// the 401 here is only a fallback.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmptyField), errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrDuplicateUsername):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
