package services

import (
	"context"
	"path/filepath"
	"testing"

	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if vec, ok := s.vectors[t]; ok {
			out[i] = vec
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func searchTestConfig() *config.Config {
	return &config.Config{
		DefaultTopK:     3,
		DefaultMinScore: 0.3,
		MinSimilarity:   0.3,
		PublicURL:       "http://localhost:8080",
	}
}

func newTestStore(t *testing.T) *DocumentStore {
	t.Helper()
	dir := t.TempDir()
	store := NewDocumentStore(
		filepath.Join(dir, "output.json"),
		filepath.Join(dir, "current_doc.json"),
	)
	require.NoError(t, store.Load())
	return store
}

func TestSearchEmptyQuery(t *testing.T) {
	engine := NewSearchEngine(searchTestConfig(), newTestStore(t), &stubEmbedder{}, nil)

	_, _, err := engine.Search(context.Background(), models.SearchRequest{SelectedText: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchVectorMode(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ReplacePast([]models.Document{
		{
			DocID:    "doc-1",
			FilePath: "guide.pdf",
			Title:    "Coastal Guide",
			Sections: []models.Section{
				{
					SectionID:  "s1",
					Heading:    "Coastal Adventures",
					PageNumber: 2,
					Content:    "Beaches and snorkeling spots along the coast.",
					Snippets:   []models.Snippet{{Text: "Beaches and snorkeling spots along the coast."}},
					Embedding:  []float32{1, 0, 0},
				},
				{
					SectionID:  "s2",
					Heading:    "Visa Paperwork",
					PageNumber: 9,
					Content:    "Forms and fees.",
					Embedding:  []float32{0, 1, 0},
				},
			},
		},
	}))

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"coastal activities": {1, 0, 0},
	}}
	engine := NewSearchEngine(searchTestConfig(), store, embedder, nil)

	results, mode, err := engine.Search(context.Background(), models.SearchRequest{
		SelectedText: "coastal activities",
	})
	require.NoError(t, err)
	assert.Equal(t, "vector", mode)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "past", r.Source)
	assert.Equal(t, "http://localhost:8080/newpdf/guide.pdf", r.PDFURL)
	require.Len(t, r.Matches, 1, "orthogonal section stays below the gate")
	assert.Equal(t, "Coastal Adventures", r.Matches[0].Section)
	assert.Equal(t, 2, r.Matches[0].PageNumber)
	assert.InDelta(t, 1.0, r.Matches[0].FinalScore, 1e-6)
	assert.Equal(t, "Beaches and snorkeling spots along the coast.", r.Matches[0].TopSnippet)
}

func TestSearchMinScoreInclusive(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ReplaceCurrent([]models.Document{
		{
			DocID:    "doc-c",
			FilePath: "current.pdf",
			Title:    "Current Doc",
			Sections: []models.Section{
				{SectionID: "s1", Heading: "Exact Match", PageNumber: 1, Embedding: []float32{1, 0, 0}},
			},
		},
	}))

	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	engine := NewSearchEngine(searchTestConfig(), store, embedder, nil)

	// Identical vectors score exactly 1.0; a threshold of 1.0 must keep them.
	results, _, err := engine.Search(context.Background(), models.SearchRequest{
		SelectedText: "q",
		MinScore:     1.0,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "current", results[0].Source)
}

func TestSearchDeduplicatesByFile(t *testing.T) {
	store := newTestStore(t)
	section := models.Section{
		SectionID: "s", Heading: "Shared", PageNumber: 1, Embedding: []float32{1, 0, 0},
	}
	require.NoError(t, store.ReplacePast([]models.Document{
		{DocID: "a", FilePath: "same.pdf", Title: "Copy A", Sections: []models.Section{section}},
	}))
	require.NoError(t, store.ReplaceCurrent([]models.Document{
		{DocID: "b", FilePath: "same.pdf", Title: "Copy B", Sections: []models.Section{section}},
	}))

	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	engine := NewSearchEngine(searchTestConfig(), store, embedder, nil)

	results, _, err := engine.Search(context.Background(), models.SearchRequest{SelectedText: "q"})
	require.NoError(t, err)
	assert.Len(t, results, 1, "same underlying file appears once")
}

func TestSearchKeywordFallback(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ReplacePast([]models.Document{
		{
			DocID:    "doc-1",
			FilePath: "things.pdf",
			Title:    "Things to Do",
			Sections: []models.Section{
				{
					SectionID:  "s1",
					Heading:    "Coastal Adventures",
					PageNumber: 2,
					Content:    "coastal adventures await along the shoreline",
				},
				{
					SectionID:  "s2",
					Heading:    "Packing",
					PageNumber: 5,
					Content:    "socks and sunscreen",
				},
			},
		},
	}))

	engine := NewSearchEngine(searchTestConfig(), store, &stubEmbedder{}, nil)

	results, mode, err := engine.Search(context.Background(), models.SearchRequest{
		SelectedText: "coastal adventures",
	})
	require.NoError(t, err)
	assert.Equal(t, "keyword", mode, "no embeddings anywhere forces keyword retrieval")
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Matches)
	assert.Equal(t, "Coastal Adventures", results[0].Matches[0].Section)
	assert.InDelta(t, 2.0, results[0].Matches[0].FinalScore, 1e-9, "both tokens hit")
}

func TestSearchRanksDocumentsByBestMatch(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ReplacePast([]models.Document{
		{
			DocID: "weak", FilePath: "weak.pdf", Title: "Weak",
			Sections: []models.Section{
				{SectionID: "w", Heading: "Tangent", PageNumber: 1, Embedding: []float32{1, 1, 0}},
			},
		},
		{
			DocID: "strong", FilePath: "strong.pdf", Title: "Strong",
			Sections: []models.Section{
				{SectionID: "s", Heading: "Direct Hit", PageNumber: 1, Embedding: []float32{1, 0, 0}},
			},
		},
	}))

	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	engine := NewSearchEngine(searchTestConfig(), store, embedder, nil)

	results, _, err := engine.Search(context.Background(), models.SearchRequest{SelectedText: "q"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "strong", results[0].DocID)
	assert.Equal(t, "weak", results[1].DocID)
}
