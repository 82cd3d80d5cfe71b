package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a \n\t b    c  "))
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "text", CleanText("te\x00xt"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 100))

	long := strings.Repeat("word ", 30)
	got := TruncateText(long, 50)
	assert.LessOrEqual(t, len(got), 53)
	assert.True(t, strings.HasSuffix(got, "..."))
}
