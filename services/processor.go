package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/internal/telemetry"
	"pdf-insight-nexus/models"

	"github.com/google/uuid"
)

// Processor runs the extract-embed-snippet pipeline over directories of
// PDFs and persists the result through the DocumentStore.
type Processor struct {
	extractor *PDFExtractor
	embedder  ai.Embedder
	store     *DocumentStore
	metrics   *telemetry.Metrics

	maxSnippets       int
	pageChunkFallback bool
}

func NewProcessor(cfg *config.Config, extractor *PDFExtractor, embedder ai.Embedder, store *DocumentStore, metrics *telemetry.Metrics) *Processor {
	return &Processor{
		extractor:         extractor,
		embedder:          embedder,
		store:             store,
		metrics:           metrics,
		maxSnippets:       cfg.MaxSnippets,
		pageChunkFallback: cfg.PageChunkFallback,
	}
}

// ProcessPastLibrary rebuilds the past-documents corpus from the input
// directory and persists it.
func (p *Processor) ProcessPastLibrary(ctx context.Context, dir string) ([]models.Document, error) {
	docs, err := p.processDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := p.store.ReplacePast(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ProcessCurrentDocument rebuilds the current-document corpus from the
// fresh-upload directory and persists it.
func (p *Processor) ProcessCurrentDocument(ctx context.Context, dir string) ([]models.Document, error) {
	docs, err := p.processDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := p.store.ReplaceCurrent(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// processDirectory extracts every PDF in dir. A document that fails to
// extract or embed is logged and skipped so one bad file cannot sink a
// batch. Files process in name order for reproducible output.
func (p *Processor) processDirectory(ctx context.Context, dir string) ([]models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Document{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]models.Document, 0, len(names))
	for _, name := range names {
		doc, err := p.ProcessFile(ctx, filepath.Join(dir, name))
		if err != nil {
			logger.Error("Document processing failed, skipping", "file", name, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	if p.metrics != nil && p.metrics.DocumentsIndexed != nil {
		p.metrics.DocumentsIndexed.Add(ctx, int64(len(docs)))
	}
	return docs, nil
}

// ProcessFile turns one PDF into a Document with embedded sections.
func (p *Processor) ProcessFile(ctx context.Context, path string) (models.Document, error) {
	filename := filepath.Base(path)

	title, drafts, err := p.extractor.ExtractSections(path, filename)
	if err != nil {
		return models.Document{}, err
	}

	if len(drafts) == 0 && p.pageChunkFallback {
		blocks, rerr := p.extractor.ReadTextBlocks(path)
		if rerr == nil {
			drafts = p.extractor.SectionsFromPages(blocks)
		}
	}
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	// One embedding batch covers section texts and their snippets.
	snippetTexts := make([][]string, len(drafts))
	texts := make([]string, 0, len(drafts))
	for i, d := range drafts {
		texts = append(texts, strings.TrimSpace(d.Heading+" "+d.Content))
		snippetTexts[i] = ExtractSnippets(d.Content, p.maxSnippets)
	}
	for _, sn := range snippetTexts {
		texts = append(texts, sn...)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return models.Document{}, fmt.Errorf("embedding %s: %w", filename, err)
	}
	if len(vectors) != len(texts) {
		return models.Document{}, fmt.Errorf("embedding count mismatch for %s", filename)
	}

	next := len(drafts)
	sections := make([]models.Section, len(drafts))
	for i, d := range drafts {
		snippets := make([]models.Snippet, 0, len(snippetTexts[i]))
		for _, s := range snippetTexts[i] {
			snippets = append(snippets, models.Snippet{Text: s, Embedding: vectors[next]})
			next++
		}
		sections[i] = models.Section{
			SectionID:    uuid.New().String(),
			Heading:      d.Heading,
			HeadingLevel: d.HeadingLevel,
			PageNumber:   d.PageNumber,
			Content:      d.Content,
			Snippets:     snippets,
			Embedding:    vectors[i],
		}
	}

	if p.metrics != nil && p.metrics.EmbeddingsCreated != nil {
		p.metrics.EmbeddingsCreated.Add(ctx, int64(len(sections)))
	}

	logger.Info("Document processed",
		"file", filename, "title", title, "sections", len(sections))

	return models.Document{
		DocID:    uuid.New().String(),
		FilePath: filename,
		Title:    title,
		Sections: sections,
	}, nil
}
