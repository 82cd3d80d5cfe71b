package models

// SearchRequest is the body accepted by POST /search.
type SearchRequest struct {
	SelectedText string  `json:"selected_text" binding:"required"`
	TopK         int     `json:"top_k"`
	MinScore     float64 `json:"min_score"`
}

// SectionMatch is one scored section within a document's result group.
type SectionMatch struct {
	Section       string   `json:"section"`
	PageNumber    int      `json:"page_number"`
	Snippets      []string `json:"snippets"`
	TopSnippet    string   `json:"top_snippet"`
	BaseScore     float64  `json:"base_score"`
	AdvancedScore float64  `json:"advanced_score"`
	FinalScore    float64  `json:"final_score"`
}

// DocumentResult groups a document's surviving matches, best first.
// Source identifies which store the document came from ("past" or "current").
type DocumentResult struct {
	DocID   string         `json:"doc_id"`
	Title   string         `json:"title"`
	PDFURL  string         `json:"pdf_url"`
	Source  string         `json:"source"`
	Matches []SectionMatch `json:"matches"`
}

// SectionScores is the scorer output for a single section/query pair.
type SectionScores struct {
	Similarity    float64 `json:"similarity"`
	AdvancedScore float64 `json:"advanced_score"`
	WeightedScore float64 `json:"weighted_score"`
}

// ResultMetrics aggregates retrieval quality over one result set.
type ResultMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	F1Score   float64 `json:"f1_score"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}
