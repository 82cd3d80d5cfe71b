package ai

import (
	"context"
	"fmt"
	"sync"

	"pdf-insight-nexus/internal/logger"

	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// Embedder converts text to fixed-dimension vectors. Satisfied by
// EmbeddingService; test doubles implement it for retrieval tests.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingService wraps the Gemini embedding model. The client is built
// once at startup; a construction failure is fatal for the process rather
// than silently degrading into zero vectors. Safe for concurrent use.
type EmbeddingService struct {
	client *genai.Client
	model  string
	cache  *EmbedCache

	mu  sync.Mutex
	dim int // pinned on first successful call
}

func NewEmbeddingService(ctx context.Context, apiKey, model string, cache *EmbedCache) (*EmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}
	return &EmbeddingService{
		client: client,
		model:  model,
		cache:  cache,
	}, nil
}

// EmbedTexts generates one embedding per input text. Empty input yields an
// empty result. Every returned vector has the same dimension for the
// lifetime of the process.
func (s *EmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	em := s.client.EmbeddingModel(s.model)
	vectors := make([][]float32, 0, len(texts))

	for _, text := range texts {
		if vec, ok := s.cache.Get(ctx, s.model, text); ok {
			vectors = append(vectors, vec)
			continue
		}

		resp, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned")
		}

		vec := resp.Embedding.Values
		if err := s.checkDimension(len(vec)); err != nil {
			return nil, err
		}

		s.cache.Set(ctx, s.model, text, vec)
		vectors = append(vectors, vec)
	}

	return vectors, nil
}

// EmbedText is a single-text convenience wrapper.
func (s *EmbeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Dimension returns the pinned vector dimension, or 0 before the first call.
func (s *EmbeddingService) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dim
}

func (s *EmbeddingService) checkDimension(got int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim == 0 {
		s.dim = got
		logger.Debug("Embedding dimension pinned", "dimension", got, "model", s.model)
		return nil
	}
	if got != s.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, expected %d", got, s.dim)
	}
	return nil
}

// Close releases the underlying API client.
func (s *EmbeddingService) Close() error {
	return s.client.Close()
}
