package filter

import (
	"fmt"
	"strings"
	"time"
)

// Parse builds a Filter from space-separated terms:
//
//	city:NAME            repeatable; underscores stand for spaces
//	neighborhood:NAME    repeatable
//	ongoing              only outages still without power
//	since:YYYY-MM-DD     recorded on or after this day (UTC)
//	until:YYYY-MM-DD     recorded on or before the end of this day (UTC)
//	text:WORD            damages description contains WORD
//
// An empty input yields an empty filter.
func Parse(input string) (*Filter, error) {
	f := &Filter{}

	for _, term := range strings.Fields(input) {
		if strings.EqualFold(term, "ongoing") {
			f.OngoingOnly = true
			continue
		}

		name, value, ok := strings.Cut(term, ":")
		if !ok || value == "" {
			return nil, fmt.Errorf("invalid filter term %q (expected name:value or 'ongoing')", term)
		}
		value = strings.ReplaceAll(value, "_", " ")

		switch strings.ToLower(name) {
		case "city":
			f.Cities = append(f.Cities, value)
		case "neighborhood":
			f.Neighborhoods = append(f.Neighborhoods, value)
		case "since":
			day, err := parseDay(value)
			if err != nil {
				return nil, err
			}
			f.RecordedFrom = &day
		case "until":
			day, err := parseDay(value)
			if err != nil {
				return nil, err
			}
			end := day.Add(24*time.Hour - time.Nanosecond)
			f.RecordedTo = &end
		case "text":
			if f.Text != "" {
				f.Text += " "
			}
			f.Text += value
		default:
			return nil, fmt.Errorf("unknown filter %q", name)
		}
	}

	if f.RecordedFrom != nil && f.RecordedTo != nil && f.RecordedFrom.After(*f.RecordedTo) {
		return nil, fmt.Errorf("since date must be before until date")
	}

	return f, nil
}

func parseDay(value string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}
