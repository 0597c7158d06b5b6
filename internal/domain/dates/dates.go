// Package dates normalizes heterogeneous published-date representations
// into a canonical YYYY-MM-DD form. Search engines return anything from
// ISO timestamps to RFC-2822 mail dates to "Mar 5, 2024"; everything
// downstream only ever sees the canonical date or "unknown".
package dates

import (
	"strings"
	"time"
)

// ISO is the canonical calendar-date layout.
const ISO = "2006-01-02"

// rfc2822Layouts cover RFC-2822 / RFC-1123 / HTTP date strings. The
// single-digit day variants are listed because RFC 2822 permits them and
// Go's two-digit layouts reject them.
var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
}

// textLayouts are common human-readable date formats seen in snippets
// and news metadata.
var textLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Normalize converts an arbitrary date-like string into a canonical
// YYYY-MM-DD date. It never fails hard: unparseable input yields ok=false.
func Normalize(value string) (string, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", false
	}

	// ISO-like: the first ten characters of e.g. "2024-03-05T10:22:00Z".
	if len(text) >= 10 {
		if t, err := time.Parse(ISO, text[:10]); err == nil {
			return t.Format(ISO), true
		}
	}

	// RFC-2822 / HTTP dates, normalized to the UTC calendar day.
	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC().Format(ISO), true
		}
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(ISO), true
		}
	}

	return "", false
}

// NormalizeTime converts an already-parsed timestamp to the canonical
// UTC calendar date. A zero time counts as unknown.
func NormalizeTime(t time.Time) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	return t.UTC().Format(ISO), true
}

// ParseISO parses a canonical date back into a UTC midnight timestamp.
// Only the first ten characters are considered.
func ParseISO(value string) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if len(text) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse(ISO, text[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeDays returns the whole-day age of a published date relative to
// today. Negative ages mean a future-dated item.
func AgeDays(today time.Time, published string) (int, bool) {
	pub, ok := ParseISO(published)
	if !ok {
		return 0, false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(pub).Hours() / 24), true
}
