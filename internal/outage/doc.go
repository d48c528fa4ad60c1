// Package outage defines the power-outage record and the rules it must satisfy.
//
// An Event is assembled in three parts (where the outage happened, when it
// happened, and what it damaged) and stamped with a random id and a recording
// time when the final part is complete. The JSON encoding of Event is the
// persisted schema; its field names must not change.
package outage
