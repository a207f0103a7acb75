package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Unique(t *testing.T) {
	g, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	var last int64
	for range 1000 {
		id := g.Generate()
		assert.Greater(t, id, last)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
		last = id
	}
}

func TestSnowflake_InvalidNode(t *testing.T) {
	_, err := NewSnowflake(5000)
	assert.Error(t, err)
}

func TestUUID_Generate(t *testing.T) {
	id := NewUUID().Generate()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
