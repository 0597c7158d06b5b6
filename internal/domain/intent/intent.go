// Package intent decides whether a question is answered from model
// knowledge alone ("chat") or augmented with retrieved web content
// ("web"). Pure string heuristics, stateless and table-driven so a
// future classifier can replace them without touching the orchestrator.
package intent

import "strings"

// Mode is the caller's routing preference.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeChat Mode = "chat"
	ModeWeb  Mode = "web"
)

// Valid reports whether m is one of the three recognized modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeChat, ModeWeb:
		return true
	}
	return false
}

// Intent labels for the response payload.
const (
	IntentChat = "chat"
	IntentWeb  = "web"
)

// timeSensitiveTriggers mark questions that need fresh information.
var timeSensitiveTriggers = []string{
	"latest", "today", "news", "current", "recent", "headline", "breaking",
}

// IsTimeSensitive reports whether the question asks about something that
// goes stale: any trigger word appearing as a substring of the
// lower-cased question counts.
func IsTimeSensitive(question string) bool {
	q := strings.ToLower(question)
	for _, trigger := range timeSensitiveTriggers {
		if strings.Contains(q, trigger) {
			return true
		}
	}
	return false
}

// ShouldUseWeb decides whether web retrieval runs for this request.
// An explicit mode always overrides inference: ModeChat never retrieves,
// even for time-sensitive phrasing.
func ShouldUseWeb(question string, explicitUseWeb bool, mode Mode) bool {
	if explicitUseWeb {
		return true
	}
	if mode == ModeWeb {
		return true
	}
	return mode == ModeAuto && IsTimeSensitive(question)
}
