package outage

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Day-first layouts come before
// month-first ones because the wizard's examples are day-first
// ("01/06/2025 14:30" is the first of June).
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
}

// ParseTimestamp attempts to parse the free-form start or end text of a
// Window. Times without a zone are taken as UTC. Returns the zero time if no
// layout matches.
func ParseTimestamp(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	return time.Time{}
}
