package services

import (
	"math"

	"pdf-insight-nexus/models"
)

// RelevanceScorer ranks sections against a query embedding. Scores blend a
// raw cosine similarity with a cross-coherence term so that sections whose
// vectors agree with the query from multiple angles rank above one-off hits.
type RelevanceScorer struct {
	minSimilarity float64
}

func NewRelevanceScorer(minSimilarity float64) *RelevanceScorer {
	return &RelevanceScorer{minSimilarity: minSimilarity}
}

// CosineSimilarity returns the cosine of the angle between two vectors, or
// 0 when either has zero magnitude or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ScoreSection computes the similarity, advanced and weighted scores for a
// section embedding against the query. Sections below the similarity gate
// are zeroed out beyond the raw similarity so callers can still report it.
func (s *RelevanceScorer) ScoreSection(section, query []float32) models.SectionScores {
	sim := CosineSimilarity(section, query)
	if sim < s.minSimilarity {
		return models.SectionScores{Similarity: sim}
	}

	advanced := s.advancedScore(section, query, sim)
	weighted := 0.7*sim + 0.3*advanced
	return models.SectionScores{
		Similarity:    sim,
		AdvancedScore: advanced,
		WeightedScore: weighted,
	}
}

// advancedScore is the mean pairwise cosine over the candidate set, scaled
// by the mean weight, the base similarity and a context factor. With one
// section and one query the pairwise mean reduces to sim itself; the shape
// is kept so the candidate set can grow without changing the contract.
func (s *RelevanceScorer) advancedScore(section, query []float32, sim float64) float64 {
	embeddings := [][]float32{section, query}
	weights := []float64{1.0, 1.0}
	const contextFactor = 1.0

	var pairSum float64
	var pairs int
	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			pairSum += CosineSimilarity(embeddings[i], embeddings[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	meanPairwise := pairSum / float64(pairs)

	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	meanWeight := weightSum / float64(len(weights))

	return meanPairwise * meanWeight * sim * contextFactor
}

// EvaluateResults derives retrieval quality metrics from counts of retrieved
// and relevant sections. The corpus universe is capped at 100 for the
// true-negative term. Divisions by zero collapse to zero.
func EvaluateResults(truePositives, retrieved, relevant int) models.ResultMetrics {
	fp := retrieved - truePositives
	fn := relevant - truePositives
	tn := 100 - (truePositives + fp + fn)

	var precision, recall float64
	if retrieved > 0 {
		precision = float64(truePositives) / float64(retrieved)
	}
	if relevant > 0 {
		recall = float64(truePositives) / float64(relevant)
	}

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	var accuracy float64
	if total := truePositives + fp + fn + tn; total > 0 {
		accuracy = float64(truePositives+tn) / float64(total)
	}

	return models.ResultMetrics{
		Accuracy:  accuracy,
		F1Score:   f1,
		Precision: precision,
		Recall:    recall,
	}
}
