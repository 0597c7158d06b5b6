package grounding

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novagate/novagate/internal/domain/entities"
)

var testToday = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func TestLiveDigest_Format(t *testing.T) {
	items := []entities.RetrievalItem{
		{Title: "Model X released", Published: "2024-03-05", Snippet: "A new model shipped.", URL: "https://example.com/a"},
		{Title: "", Published: "", Snippet: "No title here.", URL: ""},
	}

	got := LiveDigest("latest news today", items, testToday)
	lines := strings.Split(got, "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Live web results as of 2024-03-05 UTC:", lines[0])
	assert.Equal(t, "1. Model X released (2024-03-05)", lines[1])
	assert.Equal(t, "   A new model shipped.", lines[2])
	assert.Equal(t, "   Source: https://example.com/a", lines[3])
	assert.Equal(t, "2. Untitled (unknown)", lines[4])
	assert.NotContains(t, got, "Summary:")
}

func TestLiveDigest_CapsAtFiveEntries(t *testing.T) {
	items := make([]entities.RetrievalItem, 8)
	for i := range items {
		items[i] = entities.RetrievalItem{Title: "t", Snippet: "s", Published: "2024-03-05"}
	}

	got := LiveDigest("latest today", items, testToday)

	assert.Contains(t, got, "5. t (2024-03-05)")
	assert.NotContains(t, got, "6. ")
}

func TestLiveDigest_SummarySentence(t *testing.T) {
	items := []entities.RetrievalItem{{Title: "t", Snippet: "s", Published: "2024-03-05"}}

	got := LiveDigest("summarize today's news", items, testToday)
	assert.True(t, strings.HasSuffix(got, "Summary: These are the freshest available headlines from live web search."))

	// Whole-word match only: "summaries" does not trigger.
	got = LiveDigest("news summaries today", items, testToday)
	assert.NotContains(t, got, "Summary: These are the freshest")
}

func TestLiveDigest_TruncatesSnippet(t *testing.T) {
	long := strings.Repeat("x", 500)
	items := []entities.RetrievalItem{{Title: "t", Snippet: long, Published: "2024-03-05"}}

	got := LiveDigest("latest", items, testToday)

	assert.True(t, strings.HasSuffix(got, "   "+strings.Repeat("x", PreviewChars)))
	assert.NotContains(t, got, strings.Repeat("x", PreviewChars+1))
}

func TestContext_BlockFormat(t *testing.T) {
	items := []entities.RetrievalItem{
		{Title: "A", Published: "2024-03-05", Engine: entities.EngineNews, Snippet: "first", URL: "https://a"},
		{Title: "B", Published: "", Engine: "", Snippet: "second", URL: "https://b"},
	}

	got := Context(items)

	want := "[WEB title=A date=2024-03-05 engine=ddg_news]\nfirst\nSource: https://a\n\n" +
		"[WEB title=B date=unknown engine=unknown]\nsecond\nSource: https://b"
	assert.Equal(t, want, got)
}

func TestContext_HardCap(t *testing.T) {
	items := []entities.RetrievalItem{
		{Title: "big", Snippet: strings.Repeat("a", 9000), URL: "https://a"},
		{Title: "big2", Snippet: strings.Repeat("b", 9000), URL: "https://b"},
	}

	got := Context(items)

	assert.Len(t, []rune(got), MaxContextChars)
}

func TestContext_Empty(t *testing.T) {
	assert.Equal(t, "", Context(nil))
}

func TestSources_Projection(t *testing.T) {
	items := []entities.RetrievalItem{
		{Title: "A", URL: "https://a", Published: "2024-03-05", Engine: entities.EngineText, Snippet: strings.Repeat("s", 300)},
	}

	got := Sources(items, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "web", got[0].Type)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "https://a", got[0].URL)
	assert.Equal(t, "2024-03-05", got[0].Published)
	assert.Equal(t, entities.EngineText, got[0].Engine)
	assert.Equal(t, strings.Repeat("s", PreviewChars), got[0].Preview)
}

func TestSources_Limit(t *testing.T) {
	items := make([]entities.RetrievalItem, 7)
	got := Sources(items, LiveDigestItems)
	assert.Len(t, got, 5)

	got = Sources(items, 0)
	assert.Len(t, got, 7)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	// Rune-safe: multibyte characters are never split.
	assert.Equal(t, "héll", Truncate("héllo", 4))
}
