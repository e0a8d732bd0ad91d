package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCartNotFound indicates the backend no longer resolves a cart id.
	ErrCartNotFound = errors.New("cart not found")
)
