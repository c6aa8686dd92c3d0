package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 3))
	assert.Equal(t, "ab…", TruncateRunes("abc", 2))
	assert.Equal(t, "Кто…", TruncateRunes("Кто написал", 3))
}
