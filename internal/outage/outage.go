package outage

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Location is where the outage happened.
type Location struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
}

// Window is when the outage happened. StartedAt and EndedAt are the text the
// user entered, not normalized timestamps.
type Window struct {
	StartedAt         string `json:"startedAt"`
	EndedAt           string `json:"endedAt,omitempty"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
	Ongoing           bool   `json:"ongoing"`
}

// Damages describes what the outage affected.
type Damages struct {
	Description string `json:"description"`
}

// Event is one recorded power outage.
type Event struct {
	ID         string   `json:"id"`
	Location   Location `json:"location"`
	Window     Window   `json:"window"`
	Damages    Damages  `json:"damages"`
	RecordedAt string   `json:"recordedAt"`
}

// RecordedAtLayout matches the ISO-8601 form with millisecond precision,
// e.g. 2025-06-01T14:31:00.000Z.
const RecordedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// clock stamps RecordedAt; tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewEvent. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// NewEvent assembles a complete event with a fresh random id and the current
// time as RecordedAt.
func NewEvent(loc Location, win Window, dmg Damages) Event {
	return Event{
		ID:         uuid.NewString(),
		Location:   loc,
		Window:     win,
		Damages:    dmg,
		RecordedAt: clock.Now().UTC().Format(RecordedAtLayout),
	}
}

// RecordedTime parses RecordedAt. Returns the zero time if it is not RFC 3339.
func (e Event) RecordedTime() time.Time {
	t, err := time.Parse(time.RFC3339, e.RecordedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Duration returns how long the outage lasted. The second result is false
// when the outage is ongoing or either timestamp cannot be parsed.
func (e Event) Duration() (time.Duration, bool) {
	if e.Window.Ongoing {
		return 0, false
	}
	start := ParseTimestamp(e.Window.StartedAt)
	end := ParseTimestamp(e.Window.EndedAt)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0, false
	}
	return end.Sub(start), true
}
