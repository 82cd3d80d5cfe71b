package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/models"
)

// InsightsService generates structured insights about a selected passage,
// informed by related sections retrieved from the corpora.
type InsightsService struct {
	engine *SearchEngine
	llm    *ai.GeminiClient
	topK   int
}

func NewInsightsService(cfg *config.Config, engine *SearchEngine, llm *ai.GeminiClient) *InsightsService {
	return &InsightsService{
		engine: engine,
		llm:    llm,
		topK:   cfg.DefaultTopK,
	}
}

// Generate retrieves sections related to the selected text and asks the LLM
// for categorized insights as strict JSON.
func (s *InsightsService) Generate(ctx context.Context, req models.InsightsRequest) (models.Insights, []models.RelatedSection, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	related := s.relatedSections(ctx, req.SelectedText, topK)

	var contextBlock strings.Builder
	for _, r := range related {
		fmt.Fprintf(&contextBlock, "- %s (p.%d): %s\n", r.Title, r.PageNumber, r.Snippet)
	}

	prompt := fmt.Sprintf(`Analyze the selected passage against related material from the user's document library.

Selected passage:
%s

Related sections:
%s

Respond with ONLY a JSON object, no markdown fences, in exactly this shape:
{
  "key_insights": ["..."],
  "did_you_know": ["..."],
  "contradictions": ["..."],
  "inspirations": ["..."]
}

Each array holds 1-3 short, self-contained statements. Use "contradictions" for tensions between the passage and the related sections; leave an array empty if nothing qualifies.`,
		req.SelectedText, contextBlock.String())

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return models.Insights{}, nil, fmt.Errorf("generating insights: %w", err)
	}

	insights, err := parseInsights(raw)
	if err != nil {
		return models.Insights{}, nil, fmt.Errorf("parsing insights output: %w", err)
	}
	return insights, related, nil
}

func (s *InsightsService) relatedSections(ctx context.Context, text string, topK int) []models.RelatedSection {
	results, _, err := s.engine.Search(ctx, models.SearchRequest{
		SelectedText: text,
		TopK:         topK,
	})
	if err != nil {
		return []models.RelatedSection{}
	}

	var related []models.RelatedSection
	for _, r := range results {
		for _, m := range r.Matches {
			related = append(related, models.RelatedSection{
				Title:      r.Title,
				PageNumber: m.PageNumber,
				Snippet:    m.TopSnippet,
			})
		}
	}
	if related == nil {
		related = []models.RelatedSection{}
	}
	return related
}

// parseInsights tolerates models that wrap JSON in markdown fences despite
// instructions.
func parseInsights(raw string) (models.Insights, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var insights models.Insights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return models.Insights{}, err
	}
	if insights.KeyInsights == nil {
		insights.KeyInsights = []string{}
	}
	if insights.DidYouKnow == nil {
		insights.DidYouKnow = []string{}
	}
	if insights.Contradictions == nil {
		insights.Contradictions = []string{}
	}
	if insights.Inspirations == nil {
		insights.Inspirations = []string{}
	}
	return insights, nil
}
