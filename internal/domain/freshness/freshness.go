// Package freshness derives a recency window from a question's phrasing
// and filters retrieved items against it. The window is recomputed per
// request and never persisted.
package freshness

import (
	"strings"
	"time"

	"github.com/novagate/novagate/internal/domain/dates"
	"github.com/novagate/novagate/internal/domain/entities"
)

// DefaultWindowDays applies when no phrasing cue matches.
const DefaultWindowDays = 14

// windowRules map phrasing cues to window sizes. Checked in order, first
// match wins, so "today" beats "this week" when both appear.
var windowRules = []struct {
	cue  string
	days int
}{
	{"today", 1},
	{"this week", 8},
	{"weekly", 8},
	{"this month", 35},
}

// WindowDays returns the maximum age in days a retrieved item may have
// for the given question.
func WindowDays(question string) int {
	q := strings.ToLower(question)
	for _, rule := range windowRules {
		if strings.Contains(q, rule.cue) {
			return rule.days
		}
	}
	return DefaultWindowDays
}

// Filter keeps only items whose published date falls inside the question's
// freshness window as of today. Items with unknown or future dates are
// dropped. The filter is stable: survivors keep their input order.
func Filter(items []entities.RetrievalItem, question string, today time.Time) []entities.RetrievalItem {
	window := WindowDays(question)
	out := make([]entities.RetrievalItem, 0, len(items))
	for _, item := range items {
		age, ok := dates.AgeDays(today, item.Published)
		if !ok {
			continue
		}
		if age < 0 || age > window {
			continue
		}
		out = append(out, item)
	}
	return out
}
