package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novagate/novagate/internal/domain/entities"
)

func TestWindowDays(t *testing.T) {
	cases := []struct {
		question string
		want     int
	}{
		{"what happened today?", 1},
		{"TODAY's headlines", 1},
		{"news from this week", 8},
		{"weekly roundup please", 8},
		{"what changed this month", 35},
		{"latest AI research", 14},
		{"explain recursion", 14},
		// "today" outranks the weaker cues when both appear.
		{"today and this week", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WindowDays(tc.question), "question %q", tc.question)
	}
}

func TestFilter_DropsStaleUnknownAndFuture(t *testing.T) {
	today := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	items := []entities.RetrievalItem{
		{Title: "fresh", Published: "2024-03-05"},
		{Title: "edge of window", Published: "2024-03-04"},
		{Title: "stale", Published: "2024-02-04"},
		{Title: "future", Published: "2024-03-06"},
		{Title: "undated", Published: ""},
		{Title: "garbage date", Published: "next Tuesday"},
	}

	got := Filter(items, "latest news today", today)

	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Title)
}

func TestFilter_WindowBoundaryInclusive(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	items := []entities.RetrievalItem{
		{Title: "age 14", Published: "2024-03-01"},
		{Title: "age 15", Published: "2024-02-29"},
	}

	got := Filter(items, "anything without a cue", today)

	require.Len(t, got, 1)
	assert.Equal(t, "age 14", got[0].Title)
}

func TestFilter_PreservesOrder(t *testing.T) {
	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	items := []entities.RetrievalItem{
		{Title: "a", Published: "2024-03-04"},
		{Title: "b", Published: "2020-01-01"},
		{Title: "c", Published: "2024-03-03"},
		{Title: "d", Published: "2024-03-05"},
	}

	got := Filter(items, "this week in tech", today)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
	assert.Equal(t, "d", got[2].Title)
}

func TestFilter_Empty(t *testing.T) {
	got := Filter(nil, "today", time.Now().UTC())
	assert.Empty(t, got)
}
