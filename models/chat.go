package models

// ChatbotRequest is the body accepted by POST /chatbot.
type ChatbotRequest struct {
	Query string `json:"query" binding:"required"`
}

// SourceRef cites one section used to ground a chatbot answer.
type SourceRef struct {
	DocID          string  `json:"doc_id"`
	Title          string  `json:"title"`
	SectionHeading string  `json:"section_heading"`
	PageNumber     int     `json:"page_number"`
	TopSnippet     string  `json:"top_snippet"`
	Score          float64 `json:"score"`
}

// ChatbotResponse is a grounded answer with its supporting sections.
type ChatbotResponse struct {
	Response  string      `json:"response"`
	Sources   []SourceRef `json:"sources"`
	IsSummary bool        `json:"is_summary"`
}

// InsightsRequest is the body accepted by POST /insights.
type InsightsRequest struct {
	SelectedText string `json:"selected_text" binding:"required"`
	TopK         int    `json:"top_k"`
}

// Insights is the structured output the LLM must produce for a passage.
type Insights struct {
	KeyInsights    []string `json:"key_insights"`
	DidYouKnow     []string `json:"did_you_know"`
	Contradictions []string `json:"contradictions"`
	Inspirations   []string `json:"inspirations"`
}

// RelatedSection is a compact view of a retrieved section fed to the
// insights prompt.
type RelatedSection struct {
	Title      string `json:"title"`
	PageNumber int    `json:"page_number"`
	Snippet    string `json:"snippet"`
}

// PodcastRequest carries previously generated insights to narrate.
type PodcastRequest struct {
	Insights Insights `json:"insights" binding:"required"`
}

// PodcastResponse returns the generated script and the served audio path.
type PodcastResponse struct {
	Script   string `json:"script"`
	AudioURL string `json:"audio_url"`
}
