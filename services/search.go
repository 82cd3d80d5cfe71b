package services

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/internal/telemetry"
	"pdf-insight-nexus/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrEmptyQuery is returned when a search request carries no text.
var ErrEmptyQuery = errors.New("no text provided")

// SearchEngine retrieves relevant sections across the past and current
// corpora. Vector scoring is the primary path; a keyword overlap fallback
// covers corpora persisted without embeddings.
type SearchEngine struct {
	store    *DocumentStore
	embedder ai.Embedder
	scorer   *RelevanceScorer
	metrics  *telemetry.Metrics

	defaultTopK     int
	defaultMinScore float64
	singleBestMatch bool
	publicURL       string
}

func NewSearchEngine(cfg *config.Config, store *DocumentStore, embedder ai.Embedder, metrics *telemetry.Metrics) *SearchEngine {
	return &SearchEngine{
		store:           store,
		embedder:        embedder,
		scorer:          NewRelevanceScorer(cfg.MinSimilarity),
		metrics:         metrics,
		defaultTopK:     cfg.DefaultTopK,
		defaultMinScore: cfg.DefaultMinScore,
		singleBestMatch: cfg.SingleBestMatch,
		publicURL:       cfg.PublicURL,
	}
}

// sourcedDocument tags a document with the store it came from.
type sourcedDocument struct {
	doc    models.Document
	source string
}

// Search ranks documents by their best-matching sections for the query.
// It returns the ranked results and the retrieval mode used ("vector" or
// "keyword").
func (e *SearchEngine) Search(ctx context.Context, req models.SearchRequest) ([]models.DocumentResult, string, error) {
	ctx, span := otel.Tracer("search").Start(ctx, "search.query")
	defer span.End()
	start := time.Now()

	query := strings.TrimSpace(req.SelectedText)
	if query == "" {
		return nil, "", ErrEmptyQuery
	}

	topK := req.TopK
	if topK <= 0 {
		topK = e.defaultTopK
	}
	minScore := req.MinScore
	if minScore <= 0 {
		minScore = e.defaultMinScore
	}

	past, current := e.store.Snapshot()
	corpus := make([]sourcedDocument, 0, len(past)+len(current))
	for _, d := range past {
		corpus = append(corpus, sourcedDocument{doc: d, source: "past"})
	}
	for _, d := range current {
		corpus = append(corpus, sourcedDocument{doc: d, source: "current"})
	}

	mode := "vector"
	var results []models.DocumentResult
	var scored int
	var err error

	if models.HasEmbeddings(past) || models.HasEmbeddings(current) {
		results, scored, err = e.vectorSearch(ctx, query, corpus, topK, minScore)
		if err != nil {
			return nil, "", err
		}
	} else {
		mode = "keyword"
		results, scored = e.keywordSearch(query, corpus, topK)
	}

	span.SetAttributes(
		attribute.String("search.mode", mode),
		attribute.Int("search.results", len(results)),
	)
	if e.metrics != nil {
		e.metrics.RecordSearch(ctx, mode, scored, time.Since(start).Seconds())
	}
	logger.Info("Search completed",
		"mode", mode,
		"documents", len(results),
		"sections_scored", scored,
		"duration_ms", time.Since(start).Milliseconds())

	return results, mode, nil
}

func (e *SearchEngine) vectorSearch(ctx context.Context, query string, corpus []sourcedDocument, topK int, minScore float64) ([]models.DocumentResult, int, error) {
	queryVecs, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, 0, err
	}
	if len(queryVecs) == 0 {
		return nil, 0, errors.New("no embedding returned for query")
	}
	queryVec := queryVecs[0]

	var results []models.DocumentResult
	scored := 0
	relevant := 0

	for _, sd := range corpus {
		var matches []models.SectionMatch
		for _, sec := range sd.doc.Sections {
			if len(sec.Embedding) == 0 {
				continue
			}
			scored++
			scores := e.scorer.ScoreSection(sec.Embedding, queryVec)
			if scores.WeightedScore < minScore {
				continue
			}
			relevant++
			matches = append(matches, e.toMatch(sec, scores))
		}
		if len(matches) == 0 {
			continue
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].FinalScore > matches[j].FinalScore
		})
		limit := topK
		if e.singleBestMatch {
			limit = 1
		}
		if len(matches) > limit {
			matches = matches[:limit]
		}

		results = append(results, models.DocumentResult{
			DocID:   sd.doc.DocID,
			Title:   sd.doc.Title,
			PDFURL:  e.pdfURL(sd.doc.FilePath),
			Source:  sd.source,
			Matches: matches,
		})
	}

	if relevant > 0 {
		truePositives := 0
		for _, r := range results {
			for _, m := range r.Matches {
				if m.FinalScore > 0.5 {
					truePositives++
					break
				}
			}
		}
		metrics := EvaluateResults(truePositives, len(results), relevant)
		logger.Debug("Search quality",
			"precision", metrics.Precision,
			"recall", metrics.Recall,
			"f1", metrics.F1Score)
	}

	return e.rankDocuments(results, topK), scored, nil
}

func (e *SearchEngine) toMatch(sec models.Section, scores models.SectionScores) models.SectionMatch {
	snippets := make([]string, 0, len(sec.Snippets))
	for _, sn := range sec.Snippets {
		snippets = append(snippets, sn.Text)
	}
	top := ""
	if len(snippets) > 0 {
		top = snippets[0]
	} else if sec.Content != "" {
		top = sec.Content
	}
	return models.SectionMatch{
		Section:       sec.Heading,
		PageNumber:    sec.PageNumber,
		Snippets:      snippets,
		TopSnippet:    top,
		BaseScore:     scores.Similarity,
		AdvancedScore: scores.AdvancedScore,
		FinalScore:    scores.WeightedScore,
	}
}

// keywordSearch scores sections by how many query tokens their snippet text
// contains. Tokens of two characters or fewer carry no signal and are
// skipped. Only sections with at least one hit survive.
func (e *SearchEngine) keywordSearch(query string, corpus []sourcedDocument, topK int) ([]models.DocumentResult, int) {
	var tokens []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}

	var results []models.DocumentResult
	scored := 0

	for _, sd := range corpus {
		var matches []models.SectionMatch
		for _, sec := range sd.doc.Sections {
			scored++

			haystack := sec.Content
			if len(sec.Snippets) > 0 {
				var parts []string
				for _, sn := range sec.Snippets {
					parts = append(parts, sn.Text)
				}
				haystack = strings.Join(parts, " ")
			}
			haystack = strings.ToLower(haystack)

			hits := 0
			for _, t := range tokens {
				if strings.Contains(haystack, t) {
					hits++
				}
			}
			if hits == 0 {
				continue
			}

			m := e.toMatch(sec, models.SectionScores{})
			m.FinalScore = float64(hits)
			matches = append(matches, m)
		}
		if len(matches) == 0 {
			continue
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].FinalScore > matches[j].FinalScore
		})
		if len(matches) > topK {
			matches = matches[:topK]
		}

		results = append(results, models.DocumentResult{
			DocID:   sd.doc.DocID,
			Title:   sd.doc.Title,
			PDFURL:  e.pdfURL(sd.doc.FilePath),
			Source:  sd.source,
			Matches: matches,
		})
	}

	return e.rankDocuments(results, topK), scored
}

// rankDocuments orders groups by their best match, drops later duplicates
// of the same underlying file, and truncates to topK.
func (e *SearchEngine) rankDocuments(results []models.DocumentResult, topK int) []models.DocumentResult {
	sort.SliceStable(results, func(i, j int) bool {
		return bestScore(results[i]) > bestScore(results[j])
	})

	seen := map[string]struct{}{}
	deduped := results[:0]
	for _, r := range results {
		key := strings.ToLower(r.PDFURL)
		if key == "" {
			key = r.DocID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}

	if len(deduped) > topK {
		deduped = deduped[:topK]
	}
	return deduped
}

func bestScore(r models.DocumentResult) float64 {
	if len(r.Matches) == 0 {
		return 0
	}
	return r.Matches[0].FinalScore
}

func (e *SearchEngine) pdfURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return strings.TrimRight(e.publicURL, "/") + "/newpdf/" + url.PathEscape(filePath)
}
