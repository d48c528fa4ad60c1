// Package cli implements the command-line interface for outage-log.
//
// The cli package provides the Cobra-based CLI for recording power outages
// (interactively through the wizard or from flags), listing them as text, JSON
// or iCalendar with filtering and sorting, and updating, deleting or clearing
// stored events. It wires the file storage backend, optional encryption at
// rest, and the event store together from flags and environment defaults.
package cli
