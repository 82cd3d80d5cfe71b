package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSnippetsRanksByLength(t *testing.T) {
	text := strings.Join([]string{
		strings.Repeat("a", 15),
		strings.Repeat("b", 25),
		strings.Repeat("c", 90),
		strings.Repeat("d", 30),
		strings.Repeat("e", 5),
	}, ". ")

	got := ExtractSnippets(text, 3)

	assert.Equal(t, []string{
		strings.Repeat("c", 90),
		strings.Repeat("d", 30),
		strings.Repeat("b", 25),
	}, got, "fragments of 20 chars or fewer drop, rest sort longest first")
}

func TestExtractSnippetsRespectsLimit(t *testing.T) {
	text := strings.Join([]string{
		strings.Repeat("x", 40),
		strings.Repeat("y", 50),
		strings.Repeat("z", 60),
	}, "! ")

	got := ExtractSnippets(text, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("z", 60), got[0])
}

func TestExtractSnippetsStableForEqualLengths(t *testing.T) {
	first := "first fragment with exactly length"
	second := "other fragment with exactly length"
	text := first + ". " + second

	got := ExtractSnippets(text, 3)
	assert.Equal(t, []string{first, second}, got, "equal lengths keep document order")
}

func TestExtractSnippetsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractSnippets("", 3))
	assert.Empty(t, ExtractSnippets("short. tiny.", 3))
	assert.Empty(t, ExtractSnippets("anything at all goes here", 0))
}
