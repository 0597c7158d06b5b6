// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/novagate/novagate/internal/domain/entities"
)

// SearchService retrieves raw web results for a query.
// Implementations own their timeout budget and must degrade to an empty
// result set on internal failure; an empty slice means "no matches",
// never an error condition the caller has to branch on.
type SearchService interface {
	// Search returns up to topK results in engine order. freshOnly asks
	// the engine for recent items first (news-leaning path).
	Search(ctx context.Context, query string, topK int, freshOnly bool) ([]entities.RetrievalItem, error)
}

// GenerationService produces the final answer text from a language model.
type GenerationService interface {
	// Generate answers userMessage, optionally grounded in context.
	// strictGrounding selects the context-bound system prompt and tighter
	// sampling. History is cleaned and trimmed by the implementation.
	Generate(ctx context.Context, userMessage, contextText string, history []entities.ChatMessage, strictGrounding bool) (string, error)
}

// PromptSource supplies the system prompt for a generation call.
// Implementations may hot-reload prompt text from disk.
type PromptSource interface {
	// System returns the system prompt; strict selects the
	// context-grounded variant.
	System(strict bool) string
}
