package entity

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("action not allowed")
	ErrDuplicateCreate = errors.New("duplicate create request")
	ErrImageTooLarge   = errors.New("image exceeds max size")
)
