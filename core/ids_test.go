package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Run("GeneratesWithPrefix", func(t *testing.T) {
		id := NewID("p")
		assert.True(t, strings.HasPrefix(id, "p_"))
		assert.Len(t, id, 2+26)
	})

	t.Run("NormalizesPrefix", func(t *testing.T) {
		id := NewID(" C ")
		assert.True(t, strings.HasPrefix(id, "c_"))
	})

	t.Run("Unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewID("u")
			assert.False(t, seen[id], "duplicate ID generated: %s", id)
			seen[id] = true
		}
	})

	t.Run("PanicsOnEmptyPrefix", func(t *testing.T) {
		assert.Panics(t, func() { NewID("") })
		assert.Panics(t, func() { NewID("   ") })
	})
}

func TestIsValidULID(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, IsValidULID(NewID("p")))
		assert.True(t, IsValidULID(NewID("pm")))
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, IsValidULID(""))
		assert.False(t, IsValidULID("no-underscore"))
		assert.False(t, IsValidULID("p_tooshort"))
		assert.False(t, IsValidULID("_01G0EZ1XTM37C5X11SQTDNCTM1"))
		assert.False(t, IsValidULID("P_01G0EZ1XTM37C5X11SQTDNCTM1"))
		assert.False(t, IsValidULID("p_01G0EZ1XTM37C5X11SQTDNCT"))
	})
}
