// Package grounding assembles retrieved items into the bounded text
// blocks handed to the generator, the user-facing source list, and the
// pre-formatted live digest that bypasses generation entirely.
package grounding

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/novagate/novagate/internal/domain/dates"
	"github.com/novagate/novagate/internal/domain/entities"
)

const (
	// MaxContextChars caps the grounding context handed to generation.
	MaxContextChars = 12000
	// PreviewChars caps source previews and digest snippets.
	PreviewChars = 220
	// LiveDigestItems caps entries in the live digest and its source list.
	LiveDigestItems = 5
)

var summaryRE = regexp.MustCompile(`(?i)\b(summary|summarize)\b`)

// Truncate cuts s to at most n characters. This is a hard cutoff, not a
// semantic one: mid-word and mid-sentence cuts are accepted for
// compatibility with the downstream budget.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// LiveDigest renders fresh results as a deterministic human-readable
// answer. The digest itself is the response text on the live path; no
// model sees it.
func LiveDigest(question string, items []entities.RetrievalItem, today time.Time) string {
	todayISO, _ := dates.NormalizeTime(today)
	lines := []string{fmt.Sprintf("Live web results as of %s UTC:", todayISO)}

	for i, item := range items {
		if i >= LiveDigestItems {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}
		published := item.Published
		if published == "" {
			published = "unknown"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, title, published))
		if snippet := strings.TrimSpace(item.Snippet); snippet != "" {
			lines = append(lines, "   "+Truncate(snippet, PreviewChars))
		}
		if url := strings.TrimSpace(item.URL); url != "" {
			lines = append(lines, "   Source: "+url)
		}
	}

	if summaryRE.MatchString(question) {
		lines = append(lines, "Summary: These are the freshest available headlines from live web search.")
	}
	return strings.Join(lines, "\n")
}

// Context concatenates one tagged block per item into the grounding text
// for the generator, hard-capped at MaxContextChars.
func Context(items []entities.RetrievalItem) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		published := item.Published
		if published == "" {
			published = "unknown"
		}
		engine := item.Engine
		if engine == "" {
			engine = "unknown"
		}
		blocks = append(blocks, fmt.Sprintf(
			"[WEB title=%s date=%s engine=%s]\n%s\nSource: %s",
			item.Title, published, engine, item.Snippet, item.URL,
		))
	}
	joined := strings.TrimSpace(strings.Join(blocks, "\n\n"))
	return Truncate(joined, MaxContextChars)
}

// Sources projects items into the user-facing source list. limit <= 0
// means no cap; the live path passes LiveDigestItems.
func Sources(items []entities.RetrievalItem, limit int) []entities.SourceRef {
	out := make([]entities.SourceRef, 0, len(items))
	for i, item := range items {
		if limit > 0 && i >= limit {
			break
		}
		out = append(out, entities.SourceRef{
			Type:      "web",
			Title:     item.Title,
			URL:       item.URL,
			Published: item.Published,
			Engine:    item.Engine,
			Preview:   Truncate(item.Snippet, PreviewChars),
		})
	}
	return out
}
