package wizard

import (
	"strings"

	"github.com/pfrederiksen/outage-log/internal/outage"
)

// Notice is a user-facing message raised when a form is incomplete.
type Notice struct {
	Title   string
	Message string
}

func (n *Notice) Error() string {
	return n.Title + ": " + n.Message
}

func requiredField(message string) *Notice {
	return &Notice{Title: "Required field", Message: message}
}

// LocationForm holds the raw answers of the location step.
type LocationForm struct {
	Neighborhood string
	City         string
	PostalCode   string
}

// Submit validates the form and returns the trimmed location. Empty optional
// fields are dropped and the postal code is formatted.
func (f LocationForm) Submit() (outage.Location, error) {
	city := strings.TrimSpace(f.City)
	if city == "" {
		return outage.Location{}, requiredField("Please enter the affected city.")
	}

	return outage.Location{
		City:         city,
		Neighborhood: strings.TrimSpace(f.Neighborhood),
		PostalCode:   outage.FormatPostalCode(strings.TrimSpace(f.PostalCode)),
	}, nil
}

// WindowForm holds the raw answers of the time window step.
type WindowForm struct {
	StartedAt         string
	EndedAt           string
	EstimatedDuration string
	Ongoing           bool
}

// Submit validates the form. The end time is discarded for an ongoing outage.
func (f WindowForm) Submit() (outage.Window, error) {
	started := strings.TrimSpace(f.StartedAt)
	ended := strings.TrimSpace(f.EndedAt)

	if started == "" && !f.Ongoing {
		return outage.Window{}, requiredField(`Please enter the start date/time or mark the outage as "still without power".`)
	}
	if !f.Ongoing && ended == "" {
		return outage.Window{}, requiredField("Please enter the end date/time if power has returned.")
	}
	if f.Ongoing {
		ended = ""
	}

	return outage.Window{
		StartedAt:         started,
		EndedAt:           ended,
		EstimatedDuration: strings.TrimSpace(f.EstimatedDuration),
		Ongoing:           f.Ongoing,
	}, nil
}

// DamagesForm holds the raw answer of the damages step.
type DamagesForm struct {
	Description string
}

// Submit validates the form and returns the trimmed description.
func (f DamagesForm) Submit() (outage.Damages, error) {
	description := strings.TrimSpace(f.Description)
	if description == "" {
		return outage.Damages{}, requiredField(`Please describe the damages or enter "None".`)
	}
	return outage.Damages{Description: description}, nil
}
