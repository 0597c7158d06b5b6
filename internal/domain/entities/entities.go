// Package entities contains core business entities.
// These are request-scoped value objects with no knowledge of transport,
// search engines, or model runtimes.
package entities

// Engine labels identify which search engine produced a retrieval item.
const (
	EngineNews = "ddg_news"
	EngineText = "ddg_text"
)

// RetrievalItem is one raw web result as returned by the retrieval
// collaborator. Published is a canonical YYYY-MM-DD date, or empty when
// the engine gave no usable date.
type RetrievalItem struct {
	Title     string
	Snippet   string
	URL       string
	Published string
	Engine    string
}

// ChatMessage represents a single conversation turn supplied by the caller.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AskRequest is a validated question with routing hints.
type AskRequest struct {
	Question string
	TopK     int
	Mode     string // "auto", "chat" or "web"
	UseWeb   bool
	Messages []ChatMessage
}

// SourceRef is the user-facing projection of a retrieval item.
type SourceRef struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
	Engine    string `json:"engine"`
	Preview   string `json:"preview"`
}

// AnswerResult is the terminal outcome of one request. Constructed once,
// never mutated after return.
type AnswerResult struct {
	Answer     string
	Intent     string // "chat" or "web"
	Sources    []SourceRef
	Grounded   bool
	HasContext bool
}
