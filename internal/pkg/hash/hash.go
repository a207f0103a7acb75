package hash

import (
	"context"
	"errors"
)

// MaxInputBytes is the largest plaintext accepted by the password hashers.
const MaxInputBytes = 4096

// ErrInputTooLong is returned by Hash when the plaintext exceeds MaxInputBytes.
var ErrInputTooLong = errors.New("hash: input exceeds maximum length")

// Hash produces and verifies one-way digests of secrets.
type Hash interface {
	Hash(ctx context.Context, str string) ([]byte, error)
	// Verify reports a mismatch as false with a nil error; the error is kept
	// for a ctx that ended before the digest was computed.
	Verify(ctx context.Context, hashed, str string) (bool, error)
}
