package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrNotAuthor         = errors.New("not the author")
)
