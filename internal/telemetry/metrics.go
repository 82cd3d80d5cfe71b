package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	SearchRequests    metric.Int64Counter
	SearchDuration    metric.Float64Histogram
	SectionsScored    metric.Int64Counter
	DocumentsIndexed  metric.Int64Counter
	EmbeddingsCreated metric.Int64Counter
	LLMTokensUsed     metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("pdf-insight-nexus")

	searchRequests, err := meter.Int64Counter(
		"search.requests.total",
		metric.WithDescription("Total search requests served"),
	)
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram(
		"search.request.duration",
		metric.WithDescription("Search request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sectionsScored, err := meter.Int64Counter(
		"search.sections.scored",
		metric.WithDescription("Sections scored across all search requests"),
	)
	if err != nil {
		return nil, err
	}

	documentsIndexed, err := meter.Int64Counter(
		"ingest.documents.indexed",
		metric.WithDescription("Documents processed into a store"),
	)
	if err != nil {
		return nil, err
	}

	embeddingsCreated, err := meter.Int64Counter(
		"embeddings.created.total",
		metric.WithDescription("Embedding vectors computed"),
	)
	if err != nil {
		return nil, err
	}

	llmTokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		SearchRequests:    searchRequests,
		SearchDuration:    searchDuration,
		SectionsScored:    sectionsScored,
		DocumentsIndexed:  documentsIndexed,
		EmbeddingsCreated: embeddingsCreated,
		LLMTokensUsed:     llmTokensUsed,
	}, nil
}

// RecordSearch records one served search request.
func (m *Metrics) RecordSearch(ctx context.Context, mode string, sections int, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("search.mode", mode))
	m.SearchRequests.Add(ctx, 1, attrs)
	m.SectionsScored.Add(ctx, int64(sections), attrs)
	m.SearchDuration.Record(ctx, seconds, attrs)
}
