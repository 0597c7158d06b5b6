package websearch

import (
	"context"
	"strings"

	"github.com/novagate/novagate/internal/domain/grounding"
	"github.com/novagate/novagate/internal/domain/ports"
)

// maxRawContextChars caps the raw web context handed to a summarizer,
// a separate budget from the generation-time grounding context.
const maxRawContextChars = 9000

// RawContext retrieves and renders results as plain blocks for a
// summarizing consumer. Empty retrieval yields an empty string.
func RawContext(ctx context.Context, svc ports.SearchService, query string, topK int, freshOnly bool) string {
	items, err := svc.Search(ctx, query, topK, freshOnly)
	if err != nil || len(items) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		published := item.Published
		if published == "" {
			published = "unknown"
		}
		block := title + "\nDate: " + published + "\n" + item.Snippet + "\nSource: " + item.URL
		blocks = append(blocks, strings.TrimSpace(block))
	}

	return grounding.Truncate(strings.Join(blocks, "\n\n"), maxRawContextChars)
}
