package repository

import "errors"

var (
	ErrNotFound          = errors.New("todo not found")
	ErrInvalidPagination = errors.New("limit and offset must not be negative")
)
