package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "short", TruncatePreview("short", 10))
	assert.Equal(t, "exact", TruncatePreview("exact", 5))
	assert.Equal(t, "abc...", TruncatePreview("abcdef", 3))
	assert.Equal(t, "héllo...", TruncatePreview("héllo wörld", 5))
}

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "ok") })
	assert.Panics(t, func() { AssertInvariant(false, "boom") })
}
