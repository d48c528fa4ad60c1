package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/outage-log/internal/outage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByRecorded SortOrder = "recorded"
	SortByStarted  SortOrder = "started"
	SortByCity     SortOrder = "city"
)

func parseSortOrder(s string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByRecorded, SortByStarted, SortByCity:
		return order, true
	default:
		return "", false
	}
}

// sortEvents sorts events in place. Ties keep their stored order.
func sortEvents(events []outage.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByRecorded:
		sort.SliceStable(events, func(i, j int) bool {
			return newerRecorded(events[i], events[j])
		})
	case SortByStarted:
		sort.SliceStable(events, func(i, j int) bool {
			return newerStart(events[i], events[j])
		})
	case SortByCity:
		sort.SliceStable(events, func(i, j int) bool {
			ci := strings.ToLower(events[i].Location.City)
			cj := strings.ToLower(events[j].Location.City)
			if ci != cj {
				return ci < cj
			}
			// Same city, most recently recorded first
			return newerRecorded(events[i], events[j])
		})
	}
}

// newerRecorded reports whether i was recorded after j. Unparseable
// timestamps sort last.
func newerRecorded(i, j outage.Event) bool {
	ti, tj := i.RecordedTime(), j.RecordedTime()
	if !ti.IsZero() && !tj.IsZero() {
		return ti.After(tj)
	}
	return !ti.IsZero() && tj.IsZero()
}

// newerStart reports whether i started after j. Unparseable start texts sort last.
func newerStart(i, j outage.Event) bool {
	ti := outage.ParseTimestamp(i.Window.StartedAt)
	tj := outage.ParseTimestamp(j.Window.StartedAt)
	if !ti.IsZero() && !tj.IsZero() {
		return ti.After(tj)
	}
	return !ti.IsZero() && tj.IsZero()
}
