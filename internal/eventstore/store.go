package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/pfrederiksen/outage-log/internal/outage"
	"github.com/pfrederiksen/outage-log/internal/storage"
)

// StorageKey is the key the collection is stored under.
const StorageKey = "powerOutageEvents"

// EventStore is the persistence surface used by the wizard and the CLI.
type EventStore interface {
	// List returns every stored event in insertion order, or an empty slice
	// when nothing is stored or the collection cannot be read.
	List(ctx context.Context) []outage.Event
	// Append adds evt to the end of the collection. Ids are not checked for
	// uniqueness; callers must supply a fresh one.
	Append(ctx context.Context, evt outage.Event) bool
	// UpdateByID replaces the first event whose id matches evt.ID, keeping
	// its position. Returns false when no event matches.
	UpdateByID(ctx context.Context, evt outage.Event) bool
	// DeleteByID removes every event with the given id. Returns true even
	// when nothing matched.
	DeleteByID(ctx context.Context, id string) bool
	// Clear removes the stored collection entirely.
	Clear(ctx context.Context) bool
}

// KVStore implements EventStore on top of a storage.Backend.
type KVStore struct {
	backend storage.Backend
	key     string
	log     *logger.Logger
	metrics *logger.Metrics
}

// Option configures a KVStore
type Option func(*KVStore)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(s *KVStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics tracker operations are recorded in
func WithMetrics(m *logger.Metrics) Option {
	return func(s *KVStore) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithKey overrides StorageKey
func WithKey(key string) Option {
	return func(s *KVStore) {
		if key != "" {
			s.key = key
		}
	}
}

// New binds a store to backend. A nil backend yields a store whose every
// operation fails with a logged "unavailable" diagnostic.
func New(backend storage.Backend, opts ...Option) *KVStore {
	s := &KVStore{
		backend: backend,
		key:     StorageKey,
		log:     logger.Default(),
		metrics: logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ EventStore = (*KVStore)(nil)

// List returns the stored collection
func (s *KVStore) List(ctx context.Context) []outage.Event {
	defer s.observe("list", time.Now())

	events, err := s.read(ctx)
	if err != nil {
		s.fail("list", "failed to fetch events from storage", err, nil)
		return []outage.Event{}
	}

	s.metrics.SetGauge("store.events", float64(len(events)))
	s.succeed("list")
	return events
}

// Append adds evt to the end of the collection
func (s *KVStore) Append(ctx context.Context, evt outage.Event) bool {
	defer s.observe("append", time.Now())
	fields := logger.Fields{"id": evt.ID}

	events, err := s.read(ctx)
	if err != nil {
		s.fail("append", "failed to save event to storage", err, fields)
		return false
	}

	events = append(events, evt)
	if err := s.write(ctx, events); err != nil {
		s.fail("append", "failed to save event to storage", err, fields)
		return false
	}

	s.log.Debug("event saved", logger.Fields{"id": evt.ID, "count": len(events)})
	s.succeed("append")
	return true
}

// UpdateByID replaces the first event with a matching id
func (s *KVStore) UpdateByID(ctx context.Context, evt outage.Event) bool {
	defer s.observe("update", time.Now())
	fields := logger.Fields{"id": evt.ID}

	events, err := s.read(ctx)
	if err != nil {
		s.fail("update", "failed to update event in storage", err, fields)
		return false
	}

	index := -1
	for i := range events {
		if events[i].ID == evt.ID {
			index = i
			break
		}
	}
	if index < 0 {
		s.log.Info("no stored event matches id", fields)
		s.metrics.IncrCounter("store.update.not_found")
		return false
	}

	events[index] = evt
	if err := s.write(ctx, events); err != nil {
		s.fail("update", "failed to update event in storage", err, fields)
		return false
	}

	s.succeed("update")
	return true
}

// DeleteByID removes all events with the given id
func (s *KVStore) DeleteByID(ctx context.Context, id string) bool {
	defer s.observe("delete", time.Now())
	fields := logger.Fields{"id": id}

	events, err := s.read(ctx)
	if err != nil {
		s.fail("delete", "failed to delete event from storage", err, fields)
		return false
	}

	kept := make([]outage.Event, 0, len(events))
	for _, evt := range events {
		if evt.ID != id {
			kept = append(kept, evt)
		}
	}

	if err := s.write(ctx, kept); err != nil {
		s.fail("delete", "failed to delete event from storage", err, fields)
		return false
	}

	fields["removed"] = len(events) - len(kept)
	s.log.Debug("events deleted", fields)
	s.succeed("delete")
	return true
}

// Clear removes the stored collection
func (s *KVStore) Clear(ctx context.Context) bool {
	defer s.observe("clear", time.Now())

	if s.backend == nil {
		s.fail("clear", "failed to clear events from storage", storage.ErrUnavailable, nil)
		return false
	}
	if err := s.backend.RemoveItem(ctx, s.key); err != nil {
		s.fail("clear", "failed to clear events from storage", err, nil)
		return false
	}

	s.succeed("clear")
	return true
}

// read loads and decodes the collection. A missing key or a stored JSON null
// is an empty collection.
func (s *KVStore) read(ctx context.Context) ([]outage.Event, error) {
	if s.backend == nil {
		return nil, storage.ErrUnavailable
	}

	value, found, err := s.backend.GetItem(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []outage.Event{}, nil
	}

	var events []outage.Event
	if err := json.Unmarshal([]byte(value), &events); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	if events == nil {
		events = []outage.Event{}
	}
	return events, nil
}

// write encodes events and stores the full array
func (s *KVStore) write(ctx context.Context, events []outage.Event) error {
	if s.backend == nil {
		return storage.ErrUnavailable
	}

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.key, err)
	}
	return s.backend.SetItem(ctx, s.key, string(data))
}

func (s *KVStore) fail(op, message string, err error, fields logger.Fields) {
	if fields == nil {
		fields = logger.Fields{}
	}
	fields["key"] = s.key
	s.log.Error(message, fields, err)
	s.metrics.IncrCounter("store." + op + ".failed")
}

func (s *KVStore) succeed(op string) {
	s.metrics.IncrCounter("store." + op + ".ok")
}

func (s *KVStore) observe(op string, start time.Time) {
	s.metrics.RecordTiming("store."+op, time.Since(start))
}
