package repository

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrNotOwner           = errors.New("record belongs to another user")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("wrong email or password")
)
