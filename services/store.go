package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/models"
)

// DocumentStore owns the two JSON corpora: the past-documents library and
// the single current document under discussion. Files are the durable
// source of truth; the in-memory copy is a read cache swapped wholesale on
// reload or reprocess. Safe for concurrent readers.
type DocumentStore struct {
	pastPath    string
	currentPath string

	mu      sync.RWMutex
	past    []models.Document
	current []models.Document
}

func NewDocumentStore(pastPath, currentPath string) *DocumentStore {
	return &DocumentStore{
		pastPath:    pastPath,
		currentPath: currentPath,
	}
}

// Load reads both store files from disk. A missing file is an empty corpus,
// not an error; a corrupt file is.
func (s *DocumentStore) Load() error {
	past, err := readStoreFile(s.pastPath)
	if err != nil {
		return fmt.Errorf("loading past documents: %w", err)
	}
	current, err := readStoreFile(s.currentPath)
	if err != nil {
		return fmt.Errorf("loading current document: %w", err)
	}

	s.mu.Lock()
	s.past = past
	s.current = current
	s.mu.Unlock()

	logger.Info("Document store loaded",
		"past_documents", len(past),
		"current_documents", len(current))
	return nil
}

// Snapshot returns the current view of both corpora. The returned slices
// must be treated as read-only.
func (s *DocumentStore) Snapshot() (past, current []models.Document) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.past, s.current
}

// ReplacePast persists a new past-documents corpus and swaps it in.
func (s *DocumentStore) ReplacePast(docs []models.Document) error {
	if err := writeStoreFile(s.pastPath, docs); err != nil {
		return err
	}
	s.mu.Lock()
	s.past = docs
	s.mu.Unlock()
	return nil
}

// ReplaceCurrent persists a new current-document corpus and swaps it in.
func (s *DocumentStore) ReplaceCurrent(docs []models.Document) error {
	if err := writeStoreFile(s.currentPath, docs); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = docs
	s.mu.Unlock()
	return nil
}

// PastPath returns the on-disk location of the past-documents store.
func (s *DocumentStore) PastPath() string { return s.pastPath }

// CurrentPath returns the on-disk location of the current-document store.
func (s *DocumentStore) CurrentPath() string { return s.currentPath }

func readStoreFile(path string) ([]models.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Document{}, nil
		}
		return nil, err
	}

	var file models.StoreFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	file.Normalize()
	return file.Documents, nil
}

// writeStoreFile writes atomically: a temp file in the same directory is
// renamed over the target, so readers never see a partial store.
func writeStoreFile(path string, docs []models.Document) error {
	if docs == nil {
		docs = []models.Document{}
	}
	file := models.StoreFile{
		Metadata: models.StoreMetadata{
			TotalDocuments:      len(docs),
			ProcessingTimestamp: time.Now().UTC(),
		},
		Documents: docs,
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
