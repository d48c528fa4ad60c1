// Package calendar exports recorded outages as iCalendar (.ics) data so they
// can be imported into a calendar application.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/outage-log/internal/outage"
)

// clock stamps DTSTAMP and closes ongoing outages at export time.
var clock = clockwork.NewRealClock()

// SetClock swaps the export time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// GenerateICS generates a single-event calendar for evt. Returns an empty
// string when the start of the outage cannot be parsed.
func GenerateICS(evt outage.Event) string {
	now := clock.Now().UTC()
	vevent, ok := writeVEvent(evt, now)
	if !ok {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, "")
	ics.WriteString(vevent)
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// GenerateBulkICS generates one calendar holding every exportable event.
// Events whose start cannot be parsed are skipped. Returns an empty string
// when nothing can be exported.
func GenerateBulkICS(events []outage.Event, calendarName string) string {
	now := clock.Now().UTC()

	var body strings.Builder
	exported := 0
	for _, evt := range events {
		vevent, ok := writeVEvent(evt, now)
		if !ok {
			continue
		}
		body.WriteString(vevent)
		exported++
	}
	if exported == 0 {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, calendarName)
	ics.WriteString(body.String())
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeHeader(ics *strings.Builder, calendarName string) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Outage Log//outage-log//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}
}

func writeVEvent(evt outage.Event, now time.Time) (string, bool) {
	start := outage.ParseTimestamp(evt.Window.StartedAt)
	if start.IsZero() {
		return "", false
	}

	// Ongoing outages run until the export. An end that does not parse is
	// left out and the entry becomes a point in time.
	var end time.Time
	if evt.Window.Ongoing {
		end = now
	} else {
		end = outage.ParseTimestamp(evt.Window.EndedAt)
	}
	if !end.IsZero() && end.Before(start) {
		end = start
	}

	var ics strings.Builder
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@outage-log\r\n", evt.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	if !end.IsZero() {
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))
	}

	summary := fmt.Sprintf("Power outage - %s", evt.Location.City)
	if evt.Window.Ongoing {
		summary += " (ongoing)"
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(describe(evt))))
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(locationText(evt.Location))))

	if evt.Window.Ongoing {
		ics.WriteString("STATUS:TENTATIVE\r\n")
	} else {
		ics.WriteString("STATUS:CONFIRMED\r\n")
	}
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")

	return ics.String(), true
}

func describe(evt outage.Event) string {
	lines := []string{"Damages: " + evt.Damages.Description}
	if evt.Window.EstimatedDuration != "" {
		lines = append(lines, "Estimated duration: "+evt.Window.EstimatedDuration)
	}
	if evt.RecordedAt != "" {
		lines = append(lines, "Recorded at: "+evt.RecordedAt)
	}
	return strings.Join(lines, "\n")
}

func locationText(loc outage.Location) string {
	parts := make([]string, 0, 3)
	if loc.Neighborhood != "" {
		parts = append(parts, loc.Neighborhood)
	}
	parts = append(parts, loc.City)
	if loc.PostalCode != "" {
		parts = append(parts, loc.PostalCode)
	}
	return strings.Join(parts, ", ")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
