package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/models"
)

// ErrNoCurrentDocument is returned when summary is requested before any
// document has been processed into the current slot.
var ErrNoCurrentDocument = errors.New("no current document")

// chatMinScore is the relevance gate for grounding material. Lower than the
// search default so the chatbot can still answer from weak matches.
const chatMinScore = 0.2

// maxContextChars bounds the grounding context handed to the LLM.
const maxContextChars = 3000

// ChatbotService answers questions grounded in the processed corpora.
type ChatbotService struct {
	engine *SearchEngine
	store  *DocumentStore
	llm    *ai.GeminiClient
	topK   int
}

func NewChatbotService(cfg *config.Config, engine *SearchEngine, store *DocumentStore, llm *ai.GeminiClient) *ChatbotService {
	return &ChatbotService{
		engine: engine,
		store:  store,
		llm:    llm,
		topK:   cfg.DefaultTopK,
	}
}

// Answer retrieves grounding sections for the query and asks the LLM to
// respond using only that material, citing sources inline.
func (s *ChatbotService) Answer(ctx context.Context, query string) (models.ChatbotResponse, error) {
	sources := s.findRelevantSections(ctx, query)

	if len(sources) == 0 {
		return models.ChatbotResponse{
			Response: "I could not find anything in the uploaded documents related to your question. Try processing documents first or rephrasing the question.",
			Sources:  []models.SourceRef{},
		}, nil
	}

	contextText := buildContext(sources)
	prompt := fmt.Sprintf(`You are a document assistant. Answer the user's question using ONLY the context below.
Cite sources inline as (Title, p.N). If the context does not contain the answer, say so plainly instead of guessing.

Context:
%s

Question: %s

Answer:`, contextText, query)

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return models.ChatbotResponse{}, fmt.Errorf("generating answer: %w", err)
	}

	return models.ChatbotResponse{
		Response: strings.TrimSpace(answer),
		Sources:  sources,
	}, nil
}

// Summary produces the opening message for a newly processed current
// document: a short overview built from its extracted sections.
func (s *ChatbotService) Summary(ctx context.Context) (models.ChatbotResponse, error) {
	_, current := s.store.Snapshot()
	if len(current) == 0 {
		return models.ChatbotResponse{}, ErrNoCurrentDocument
	}

	doc := current[0]
	var b strings.Builder
	for _, sec := range doc.Sections {
		line := fmt.Sprintf("%s (p.%d): %s\n", sec.Heading, sec.PageNumber, sec.Content)
		if b.Len()+len(line) > maxContextChars {
			break
		}
		b.WriteString(line)
	}

	prompt := fmt.Sprintf(`Summarize the document "%s" in 3-5 sentences for a reader deciding whether to read it. Base the summary only on these extracted sections:

%s`, doc.Title, b.String())

	summary, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return models.ChatbotResponse{}, fmt.Errorf("generating summary: %w", err)
	}

	return models.ChatbotResponse{
		Response:  strings.TrimSpace(summary),
		Sources:   []models.SourceRef{},
		IsSummary: true,
	}, nil
}

// findRelevantSections flattens search results into source references. When
// nothing clears the relevance gate, the search reruns ungated so the
// chatbot always has its best-effort material to work from.
func (s *ChatbotService) findRelevantSections(ctx context.Context, query string) []models.SourceRef {
	results, _, err := s.engine.Search(ctx, models.SearchRequest{
		SelectedText: query,
		TopK:         s.topK,
		MinScore:     chatMinScore,
	})
	if err != nil {
		logger.Warn("Chatbot retrieval failed", "error", err)
		return nil
	}

	if len(results) == 0 {
		results, _, err = s.engine.Search(ctx, models.SearchRequest{
			SelectedText: query,
			TopK:         s.topK,
			MinScore:     1e-9,
		})
		if err != nil || len(results) == 0 {
			return nil
		}
	}

	var sources []models.SourceRef
	for _, r := range results {
		for _, m := range r.Matches {
			sources = append(sources, models.SourceRef{
				DocID:          r.DocID,
				Title:          r.Title,
				SectionHeading: m.Section,
				PageNumber:     m.PageNumber,
				TopSnippet:     m.TopSnippet,
				Score:          m.FinalScore,
			})
		}
	}
	return sources
}

func buildContext(sources []models.SourceRef) string {
	var b strings.Builder
	for _, src := range sources {
		entry := fmt.Sprintf("Source: %s | Section: %s | Page: %d\n%s\n\n",
			src.Title, src.SectionHeading, src.PageNumber, src.TopSnippet)
		if b.Len()+len(entry) > maxContextChars {
			break
		}
		b.WriteString(entry)
	}
	return strings.TrimSpace(b.String())
}
