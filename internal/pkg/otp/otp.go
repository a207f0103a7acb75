package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

// DefaultTTL is how long a generated code stays valid.
const DefaultTTL = 10 * time.Minute

// Code is a generated one-time code with its expiry instant.
type Code struct {
	Value     string
	ExpiresAt time.Time
}

// Generator produces one-time codes.
type Generator interface {
	Generate() (Code, error)
}

type clocker interface {
	Now() time.Time
}

// Numeric generates fixed-width decimal codes drawn uniformly from a
// cryptographically strong source. Leading zeros are kept.
type Numeric struct {
	digits int
	max    *big.Int
	ttl    time.Duration
	clock  clocker
	rand   io.Reader
}

// NewNumeric returns a 6-digit generator when digits <= 0 and DefaultTTL when
// ttl <= 0.
func NewNumeric(digits int, ttl time.Duration, clock clocker) *Numeric {
	if digits <= 0 {
		digits = 6
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Numeric{
		digits: digits,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil),
		ttl:    ttl,
		clock:  clock,
		rand:   rand.Reader,
	}
}

// Generate returns a new code expiring ttl from now. The expiry is truncated
// to microseconds, the precision Postgres stores, so the value handed to the
// mailer equals the one read back at verification.
func (n *Numeric) Generate() (Code, error) {
	v, err := rand.Int(n.rand, n.max)
	if err != nil {
		return Code{}, fmt.Errorf("otp: read random: %w", err)
	}

	return Code{
		Value:     fmt.Sprintf("%0*s", n.digits, v.String()),
		ExpiresAt: n.clock.Now().Add(n.ttl).Truncate(time.Microsecond),
	}, nil
}
