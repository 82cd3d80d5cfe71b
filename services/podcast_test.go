package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextSplitsOnSentences(t *testing.T) {
	script := strings.Repeat("This is a spoken sentence about the findings. ", 30)

	chunks := chunkText(script, 450)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 450)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
	assert.True(t, strings.HasSuffix(chunks[0], "."), "chunks end on sentence boundaries")
}

func TestChunkTextHandlesRunOnText(t *testing.T) {
	runOn := strings.Repeat("x", 1000)

	chunks := chunkText(runOn, 450)
	require.Greater(t, len(chunks), 1)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 450)
		total += len(c)
	}
	assert.Equal(t, 1000, total, "no text lost on hard cuts")
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := chunkText("Short script.", 450)
	assert.Equal(t, []string{"Short script."}, chunks)
}

func TestTTSClientDisabledWithoutKey(t *testing.T) {
	c := NewTTSClient("https://example.invalid", "", "hi-IN", 0)
	assert.False(t, c.Enabled())

	var nilClient *TTSClient
	assert.False(t, nilClient.Enabled(), "nil receiver is safe")
}
