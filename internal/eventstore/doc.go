// Package eventstore persists the collection of recorded outage events.
//
// The whole collection is stored as one JSON array under a single fixed key
// of a storage.Backend. Every mutation reads the full array, transforms it in
// memory and writes it back in full. There is no locking: two writers racing
// on the same backend can lose an update. The CLI runs one command at a time,
// so this is never exercised in normal use.
//
// Store operations never return errors. Failures are logged and reported as
// an empty list or a false result, which callers show to the user as
// "operation did not succeed".
package eventstore
