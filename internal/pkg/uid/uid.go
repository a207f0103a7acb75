// Package uid generates identifiers: snowflake numbers for primary keys and
// UUIDv7 strings for correlation, token and idempotency ids.
package uid

import "github.com/google/uuid"

type NumberID interface {
	Generate() int64
}

type StringID interface {
	Generate() string
}

// UUID yields time-ordered v7 UUIDs, falling back to v4 if the clock source
// fails.
type UUID struct{}

func NewUUID() UUID { return UUID{} }

func (UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
