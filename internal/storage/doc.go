// Package storage provides the local key-value backends that hold persisted data.
//
// A Backend maps string keys to string values. FileBackend keeps one JSON
// file per key under a data directory (default ~/.local/share/outage-log/).
// SQLiteBackend keeps every key as a row of one table in a local SQLite
// database file. MemoryBackend is an in-process map used by tests. EncryptedBackend wraps
// another backend and encrypts values at rest.
package storage
