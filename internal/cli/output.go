package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/outage-log/internal/calendar"
	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/pfrederiksen/outage-log/internal/outage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// calendarName is the X-WR-CALNAME of exported calendars
const calendarName = "Power outages"

// OutputResult contains data to be output
type OutputResult struct {
	ListedAt   time.Time      `json:"listed_at"`
	Filter     string         `json:"filter,omitempty"`
	Sort       SortOrder      `json:"sort"`
	EventCount int            `json:"event_count"`
	Events     []outage.Event `json:"events"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeICS(w io.Writer, result *OutputResult) error {
	ics := calendar.GenerateBulkICS(result.Events, calendarName)
	if ics == "" {
		logger.Warn("no events with a parseable start time to export", logger.Fields{
			"event_count": result.EventCount,
		})
		return nil
	}
	_, err := io.WriteString(w, ics)
	return err
}

// writeText outputs the summary as human-readable cards
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		if result.Filter != "" {
			fmt.Fprintf(w, "No outage events match the filter (%s).\n", result.Filter)
			return nil
		}
		fmt.Fprintln(w, "No outage events recorded yet. Run \"outage-log record\" to add one.")
		return nil
	}

	fmt.Fprintln(w, "Power outage summary")
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}

	for _, evt := range result.Events {
		fmt.Fprintln(w)
		writeCard(w, evt, verbose)
	}

	noun := "events"
	if result.EventCount == 1 {
		noun = "event"
	}
	fmt.Fprintf(w, "\nTotal: %d %s\n", result.EventCount, noun)
	return nil
}

func writeCard(w io.Writer, evt outage.Event, verbose bool) {
	fmt.Fprintf(w, "[%s]\n", evt.ID)
	fmt.Fprintf(w, "  Location: %s\n", formatLocation(evt.Location))
	fmt.Fprintf(w, "  Start: %s\n", evt.Window.StartedAt)
	if evt.Window.Ongoing {
		fmt.Fprintln(w, "  Status: Still without power")
	} else {
		fmt.Fprintf(w, "  End: %s\n", evt.Window.EndedAt)
	}
	if evt.Window.EstimatedDuration != "" {
		fmt.Fprintf(w, "  Estimated duration: %s\n", evt.Window.EstimatedDuration)
	}
	fmt.Fprintf(w, "  Damages: %s\n", evt.Damages.Description)
	fmt.Fprintf(w, "  Recorded at: %s\n", formatRecordedAt(evt))

	if verbose {
		if d, ok := evt.Duration(); ok {
			fmt.Fprintf(w, "  Measured duration: %s\n", d)
		}
	}
}

// formatLocation renders "City, Neighborhood (PostalCode)"
func formatLocation(loc outage.Location) string {
	var b strings.Builder
	b.WriteString(loc.City)
	if loc.Neighborhood != "" {
		b.WriteString(", " + loc.Neighborhood)
	}
	if loc.PostalCode != "" {
		b.WriteString(" (" + loc.PostalCode + ")")
	}
	return b.String()
}

func formatRecordedAt(evt outage.Event) string {
	t := evt.RecordedTime()
	if t.IsZero() {
		return evt.RecordedAt
	}
	return t.UTC().Format("Jan 2, 2006 15:04 MST")
}
