package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novagate/novagate/internal/domain/entities"
)

type stubSearch struct {
	items []entities.RetrievalItem
	err   error
	calls int
}

func (s *stubSearch) Search(_ context.Context, _ string, _ int, _ bool) ([]entities.RetrievalItem, error) {
	s.calls++
	return s.items, s.err
}

func TestRawContext_Blocks(t *testing.T) {
	svc := &stubSearch{items: []entities.RetrievalItem{
		{Title: "A", Published: "2024-03-05", Snippet: "first", URL: "https://a"},
		{Title: "", Published: "", Snippet: "second", URL: "https://b"},
	}}

	got := RawContext(context.Background(), svc, "q", 5, false)

	want := "A\nDate: 2024-03-05\nfirst\nSource: https://a\n\n" +
		"Untitled\nDate: unknown\nsecond\nSource: https://b"
	assert.Equal(t, want, got)
}

func TestRawContext_EmptyOnNoResults(t *testing.T) {
	assert.Equal(t, "", RawContext(context.Background(), &stubSearch{}, "q", 5, false))
	assert.Equal(t, "", RawContext(context.Background(), &stubSearch{err: errors.New("down")}, "q", 5, false))
}

func TestRawContext_Capped(t *testing.T) {
	svc := &stubSearch{items: []entities.RetrievalItem{
		{Title: "big", Snippet: strings.Repeat("x", 12000), URL: "https://a"},
	}}

	got := RawContext(context.Background(), svc, "q", 5, false)

	assert.Len(t, []rune(got), maxRawContextChars)
}
