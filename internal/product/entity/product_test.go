package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductPatch_Empty(t *testing.T) {
	assert.True(t, ProductPatch{}.Empty())

	title := "Lamp"
	assert.False(t, ProductPatch{Title: &title}.Empty())

	var qty int32
	assert.False(t, ProductPatch{Quantity: &qty}.Empty())
}
