package outage

import (
	"fmt"
	"strings"
	"unicode"
)

// Field names used in ValidationError, in JSON path form.
const (
	FieldCity        = "location.city"
	FieldStartedAt   = "window.startedAt"
	FieldEndedAt     = "window.endedAt"
	FieldDescription = "damages.description"
)

// ValidationError reports the first field of an Event that breaks a rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the invariants every stored event is expected to hold.
// The event store itself does not call it; the wizard and the update command do.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Location.City) == "" {
		return &ValidationError{Field: FieldCity, Message: "city is required"}
	}

	if e.Window.Ongoing {
		if e.Window.EndedAt != "" {
			return &ValidationError{Field: FieldEndedAt, Message: "must be empty while the outage is ongoing"}
		}
	} else {
		if strings.TrimSpace(e.Window.StartedAt) == "" {
			return &ValidationError{Field: FieldStartedAt, Message: "start time is required unless the outage is ongoing"}
		}
		if strings.TrimSpace(e.Window.EndedAt) == "" {
			return &ValidationError{Field: FieldEndedAt, Message: "end time is required unless the outage is ongoing"}
		}
	}

	if strings.TrimSpace(e.Damages.Description) == "" {
		return &ValidationError{Field: FieldDescription, Message: "description is required"}
	}

	return nil
}

// FormatPostalCode keeps only the digits of text and inserts a dash after
// the fifth digit once there are more than five ("12345678" -> "12345-678").
// Input with more than eight digits is returned unchanged.
func FormatPostalCode(text string) string {
	digits := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, text)

	switch {
	case len(digits) <= 5:
		return digits
	case len(digits) <= 8:
		return digits[:5] + "-" + digits[5:]
	default:
		return text
	}
}
