package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pdf-insight-nexus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFiles(t *testing.T) {
	store := newTestStore(t)

	past, current := store.Snapshot()
	assert.Empty(t, past)
	assert.Empty(t, current)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	docs := []models.Document{
		{
			DocID:    "d1",
			FilePath: "report.pdf",
			Title:    "Annual Report",
			Sections: []models.Section{
				{
					SectionID:  "s1",
					Heading:    "Revenue Overview",
					PageNumber: 3,
					Content:    "Revenue grew over the period.",
					Snippets:   []models.Snippet{{Text: "Revenue grew over the period."}},
					Embedding:  []float32{0.1, 0.2},
				},
			},
		},
	}
	require.NoError(t, store.ReplacePast(docs))

	// A fresh store reading the same files sees identical content.
	reloaded := NewDocumentStore(store.PastPath(), store.CurrentPath())
	require.NoError(t, reloaded.Load())
	past, _ := reloaded.Snapshot()
	require.Len(t, past, 1)
	assert.Equal(t, docs[0].Title, past[0].Title)
	assert.Equal(t, docs[0].Sections[0].Embedding, past[0].Sections[0].Embedding)
}

func TestStoreFileMetadata(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ReplacePast([]models.Document{
		{DocID: "a", FilePath: "a.pdf", Title: "A"},
		{DocID: "b", FilePath: "b.pdf", Title: "B"},
	}))

	raw, err := os.ReadFile(store.PastPath())
	require.NoError(t, err)

	var file models.StoreFile
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, 2, file.Metadata.TotalDocuments)
	assert.False(t, file.Metadata.ProcessingTimestamp.IsZero())
}

func TestStoreNormalizesOnLoad(t *testing.T) {
	dir := t.TempDir()
	pastPath := filepath.Join(dir, "output.json")

	// Hand-written store with a zero page number and nil slices.
	raw := `{
		"metadata": {"total_documents": 1, "processing_timestamp": "2025-01-01T00:00:00Z"},
		"documents": [
			{"doc_id": "d", "file_path": "f.pdf", "title": "T",
			 "sections": [{"section_id": "s", "heading": "H", "page_number": 0, "content": ""}]}
		]
	}`
	require.NoError(t, os.WriteFile(pastPath, []byte(raw), 0o644))

	store := NewDocumentStore(pastPath, filepath.Join(dir, "current_doc.json"))
	require.NoError(t, store.Load())

	past, _ := store.Snapshot()
	require.Len(t, past, 1)
	require.Len(t, past[0].Sections, 1)
	assert.Equal(t, 1, past[0].Sections[0].PageNumber, "page numbers floor to 1")
	assert.NotNil(t, past[0].Sections[0].Snippets)
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	pastPath := filepath.Join(dir, "output.json")
	require.NoError(t, os.WriteFile(pastPath, []byte("{not json"), 0o644))

	store := NewDocumentStore(pastPath, filepath.Join(dir, "current_doc.json"))
	assert.Error(t, store.Load())
}

func TestStoreReplaceSwapsInMemory(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.ReplaceCurrent([]models.Document{{DocID: "x", Title: "X"}}))
	_, current := store.Snapshot()
	require.Len(t, current, 1)

	require.NoError(t, store.ReplaceCurrent(nil))
	_, current = store.Snapshot()
	assert.Empty(t, current)
}
