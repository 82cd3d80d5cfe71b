package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsightsPlainJSON(t *testing.T) {
	raw := `{"key_insights": ["a"], "did_you_know": ["b"], "contradictions": [], "inspirations": ["c"]}`

	got, err := parseInsights(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.KeyInsights)
	assert.Equal(t, []string{"b"}, got.DidYouKnow)
	assert.Empty(t, got.Contradictions)
	assert.Equal(t, []string{"c"}, got.Inspirations)
}

func TestParseInsightsStripsFences(t *testing.T) {
	raw := "```json\n{\"key_insights\": [\"fenced\"]}\n```"

	got, err := parseInsights(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"fenced"}, got.KeyInsights)
	assert.NotNil(t, got.DidYouKnow, "missing arrays come back empty, not nil")
	assert.NotNil(t, got.Contradictions)
	assert.NotNil(t, got.Inspirations)
}

func TestParseInsightsRejectsProse(t *testing.T) {
	_, err := parseInsights("Here are some insights about your document.")
	assert.Error(t, err)
}
