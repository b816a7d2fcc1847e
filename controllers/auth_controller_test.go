package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGooglePasswordSeed(t *testing.T) {
	long := googlePasswordSeed("118234567890123456789")
	assert.True(t, strings.HasPrefix(long, "11823456"))

	// Must not panic on IDs shorter than the prefix
	short := googlePasswordSeed("ab")
	assert.True(t, strings.HasPrefix(short, "ab"))
	assert.Greater(t, len(short), 2)

	empty := googlePasswordSeed("")
	assert.NotEmpty(t, empty)
}
