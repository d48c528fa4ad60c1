// Package filter narrows a list of recorded outage events for the summary.
//
// Criteria combine with AND; list-valued criteria match when any entry
// matches:
//   - Cities and neighborhoods (case-insensitive substring match)
//   - Ongoing outages only
//   - Recording date range (inclusive)
//   - Free text contained in the damages description
//
// Example usage:
//
//	f, err := filter.Parse("city:springfield ongoing since:2025-06-01")
//	if err != nil {
//	    return err
//	}
//	events = f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/outage-log/internal/outage"
)

// Filter represents outage filtering criteria
type Filter struct {
	Cities        []string   `json:"cities,omitempty"`
	Neighborhoods []string   `json:"neighborhoods,omitempty"`
	OngoingOnly   bool       `json:"ongoing_only,omitempty"`
	RecordedFrom  *time.Time `json:"recorded_from,omitempty"`
	RecordedTo    *time.Time `json:"recorded_to,omitempty"`
	Text          string     `json:"text,omitempty"`
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.Cities) == 0 &&
		len(f.Neighborhoods) == 0 &&
		!f.OngoingOnly &&
		f.RecordedFrom == nil &&
		f.RecordedTo == nil &&
		f.Text == "")
}

// Matches reports whether evt satisfies every active criterion. Events whose
// recordedAt cannot be parsed never match a date range.
func (f *Filter) Matches(evt outage.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if f.OngoingOnly && !evt.Window.Ongoing {
		return false
	}

	if f.RecordedFrom != nil || f.RecordedTo != nil {
		recorded := evt.RecordedTime()
		if recorded.IsZero() {
			return false
		}
		if f.RecordedFrom != nil && recorded.Before(*f.RecordedFrom) {
			return false
		}
		if f.RecordedTo != nil && recorded.After(*f.RecordedTo) {
			return false
		}
	}

	if len(f.Cities) > 0 && !containsAny(evt.Location.City, f.Cities) {
		return false
	}

	if len(f.Neighborhoods) > 0 && !containsAny(evt.Location.Neighborhood, f.Neighborhoods) {
		return false
	}

	if f.Text != "" && !containsAny(evt.Damages.Description, []string{f.Text}) {
		return false
	}

	return true
}

// Apply returns the events that match, preserving order. An empty filter
// returns events unchanged.
func (f *Filter) Apply(events []outage.Event) []outage.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]outage.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String describes the active criteria, e.g.
// "Cities: Springfield | Ongoing only | Since: Jun 1, 2025".
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}
	if len(f.Neighborhoods) > 0 {
		parts = append(parts, fmt.Sprintf("Neighborhoods: %s", strings.Join(f.Neighborhoods, ", ")))
	}
	if f.OngoingOnly {
		parts = append(parts, "Ongoing only")
	}
	if f.RecordedFrom != nil {
		parts = append(parts, fmt.Sprintf("Since: %s", f.RecordedFrom.Format("Jan 2, 2006")))
	}
	if f.RecordedTo != nil {
		parts = append(parts, fmt.Sprintf("Until: %s", f.RecordedTo.Format("Jan 2, 2006")))
	}
	if f.Text != "" {
		parts = append(parts, fmt.Sprintf("Damages contain: %q", f.Text))
	}

	return strings.Join(parts, " | ")
}

func containsAny(value string, needles []string) bool {
	value = strings.ToLower(value)
	for _, needle := range needles {
		if strings.Contains(value, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
