package models

import (
	"time"
)

// HeadingLevel classifies a section heading within the document outline.
type HeadingLevel string

const (
	HeadingH1 HeadingLevel = "H1"
	HeadingH2 HeadingLevel = "H2"
	HeadingH3 HeadingLevel = "H3"
)

// Document is one processed PDF with its extracted sections.
// Documents are immutable once built; reprocessing replaces them wholesale.
type Document struct {
	DocID    string    `json:"doc_id"`
	FilePath string    `json:"file_path"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is a contiguous span of document text under one heading.
// Embedding is either empty (not yet computed) or has the model's full
// dimension. Sections preserve reading order: page, then vertical position.
type Section struct {
	SectionID    string       `json:"section_id"`
	Heading      string       `json:"heading"`
	HeadingLevel HeadingLevel `json:"heading_level"`
	PageNumber   int          `json:"page_number"`
	Content      string       `json:"content"`
	Snippets     []Snippet    `json:"snippets"`
	Embedding    []float32    `json:"embedding"`
}

// Snippet is a representative sentence from a section (longest qualifying
// sentences win; at most three per section).
type Snippet struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// TextBlock is one merged text line with layout signals, produced by the PDF
// text layer and consumed entirely inside the structural extractor. Page is
// 0-based here; Y0 is measured from the top of the page.
type TextBlock struct {
	Text     string
	FontSize float64
	Page     int
	X0       float64
	Y0       float64
	Bold     bool
}

// StoreMetadata describes one persisted document store file.
type StoreMetadata struct {
	TotalDocuments      int       `json:"total_documents"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
}

// StoreFile is the on-disk shape of a document store (past or current).
type StoreFile struct {
	Metadata  StoreMetadata `json:"metadata"`
	Documents []Document    `json:"documents"`
}

// Normalize validates a decoded store file: nil section slices become empty,
// page numbers are floored to 1. This replaces silent per-key defaulting at
// every read site.
func (s *StoreFile) Normalize() {
	if s.Documents == nil {
		s.Documents = []Document{}
	}
	for i := range s.Documents {
		if s.Documents[i].Sections == nil {
			s.Documents[i].Sections = []Section{}
		}
		for j := range s.Documents[i].Sections {
			sec := &s.Documents[i].Sections[j]
			if sec.PageNumber < 1 {
				sec.PageNumber = 1
			}
			if sec.Snippets == nil {
				sec.Snippets = []Snippet{}
			}
		}
	}
}

// HasEmbeddings reports whether any section in the collection carries a
// computed embedding. Used to decide between vector and keyword retrieval.
func HasEmbeddings(docs []Document) bool {
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			if len(sec.Embedding) > 0 {
				return true
			}
		}
	}
	return false
}
