package otp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
)

func TestNumeric_Generate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewNumeric(0, 0, clock.NewFixed(now))

	for range 200 {
		code, err := g.Generate()
		require.NoError(t, err)

		assert.Len(t, code.Value, 6)
		for _, r := range code.Value {
			assert.True(t, r >= '0' && r <= '9', code.Value)
		}
		assert.Equal(t, now.Add(10*time.Minute), code.ExpiresAt)
	}
}

func TestNumeric_ExpiryMicrosecondPrecision(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 123456789, time.UTC)
	g := NewNumeric(6, time.Minute, clock.NewFixed(now))

	code, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 1, 0, 123456000, time.UTC), code.ExpiresAt)
	assert.Zero(t, code.ExpiresAt.Nanosecond()%int(time.Microsecond))
}

func TestNumeric_LeadingZeros(t *testing.T) {
	g := NewNumeric(6, time.Minute, clock.New())
	// rand.Int reads ceil(bits/8) bytes and masks the top; all-zero input yields 0.
	g.rand = bytes.NewReader(make([]byte, 64))

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "000000", code.Value)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNumeric_RandomFailure(t *testing.T) {
	g := NewNumeric(6, time.Minute, clock.New())
	g.rand = failingReader{}

	_, err := g.Generate()
	assert.Error(t, err)
}

func TestNumeric_Spread(t *testing.T) {
	g := NewNumeric(6, time.Minute, clock.New())

	seen := make(map[string]struct{})
	for range 100 {
		code, err := g.Generate()
		require.NoError(t, err)
		seen[code.Value] = struct{}{}
	}

	assert.Greater(t, len(seen), 90)
}
