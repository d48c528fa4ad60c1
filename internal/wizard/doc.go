// Package wizard walks a user through recording an outage in three steps:
// location, time window, and damages.
//
// Each step is a form whose Submit method either returns the validated part
// of the event or a *Notice explaining which required field is missing. The
// interactive Wizard prints the notice and asks the same step again. Once all
// three parts are valid the event is stamped with an id and a recording time
// and appended to the event store.
package wizard
