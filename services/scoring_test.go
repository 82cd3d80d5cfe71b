package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9, "identical vectors")
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9, "orthogonal vectors")
	assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-9, "symmetric")

	assert.Zero(t, CosineSimilarity(a, []float32{0, 0, 0}), "zero vector")
	assert.Zero(t, CosineSimilarity(a, []float32{1, 0}), "dimension mismatch")
	assert.Zero(t, CosineSimilarity(nil, a), "nil vector")
}

func TestScoreSectionBelowGate(t *testing.T) {
	scorer := NewRelevanceScorer(0.3)

	// Orthogonal vectors: similarity 0, well under the gate.
	scores := scorer.ScoreSection([]float32{1, 0}, []float32{0, 1})

	assert.Zero(t, scores.AdvancedScore)
	assert.Zero(t, scores.WeightedScore)
	assert.InDelta(t, 0.0, scores.Similarity, 1e-9)
}

func TestScoreSectionBlend(t *testing.T) {
	scorer := NewRelevanceScorer(0.3)

	// Identical vectors: sim 1, advanced 1, blend 0.7+0.3.
	scores := scorer.ScoreSection([]float32{2, 1}, []float32{2, 1})
	assert.InDelta(t, 1.0, scores.Similarity, 1e-9)
	assert.InDelta(t, 1.0, scores.AdvancedScore, 1e-9)
	assert.InDelta(t, 1.0, scores.WeightedScore, 1e-9)

	// 45 degrees: sim = sqrt(2)/2, advanced = sim^2, weighted = blend.
	sim := math.Sqrt2 / 2
	scores = scorer.ScoreSection([]float32{1, 0}, []float32{1, 1})
	assert.InDelta(t, sim, scores.Similarity, 1e-6)
	assert.InDelta(t, sim*sim, scores.AdvancedScore, 1e-6)
	assert.InDelta(t, 0.7*sim+0.3*sim*sim, scores.WeightedScore, 1e-6)
}

func TestEvaluateResults(t *testing.T) {
	m := EvaluateResults(2, 3, 4)

	assert.InDelta(t, 2.0/3.0, m.Precision, 1e-9)
	assert.InDelta(t, 0.5, m.Recall, 1e-9)
	assert.InDelta(t, 2*(2.0/3.0)*0.5/((2.0/3.0)+0.5), m.F1Score, 1e-9)
	assert.InDelta(t, 0.97, m.Accuracy, 1e-9)
}

func TestEvaluateResultsZeroGuards(t *testing.T) {
	m := EvaluateResults(0, 0, 0)

	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1Score)
	assert.InDelta(t, 1.0, m.Accuracy, 1e-9, "empty universe is all true negatives")
}
