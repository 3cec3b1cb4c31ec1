package garage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/kv"
	"github.com/WessleyAI/carhub/pkg/metrics"
)

// Store binds a Collection to a storage slot. Operations take the current
// state and return the next one; every change is persisted, and persist
// failures are logged rather than returned.
//
// Separate processes sharing a slot are not coordinated: the last write wins.
type Store[E any] struct {
	Collection[E]

	// Name labels logs and metrics.
	Name string
	// StorageKey is the kv slot holding the JSON document.
	StorageKey string
	// Project builds an item from a vehicle.
	Project func(domain.Vehicle) E
	// Stamp, if set, records the insertion time on a new item.
	Stamp func(E, time.Time) E

	kv      kv.Store
	logger  *slog.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// NewStore creates a store over slot. logger defaults to slog.Default().
func NewStore[E any](c Collection[E], name, key string, project func(domain.Vehicle) E, slot kv.Store, logger *slog.Logger) *Store[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[E]{
		Collection: c,
		Name:       name,
		StorageKey: key,
		Project:    project,
		kv:         slot,
		logger:     logger.With("store", name),
		now:        time.Now,
	}
}

// WithMetrics records operations on m and returns the store.
func (s *Store[E]) WithMetrics(m *metrics.Registry) *Store[E] {
	s.metrics = m
	return s
}

// Load reads the persisted state. A missing, unreadable or malformed
// document yields an empty state.
func (s *Store[E]) Load(ctx context.Context) State[E] {
	raw, err := s.kv.Get(ctx, s.StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Empty[E]()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "read failed, starting empty", "key", s.StorageKey, "err", err)
		s.metrics.StoreOp(s.Name, "load", "read_failed")
		return Empty[E]()
	}

	var st State[E]
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.WarnContext(ctx, "malformed state, starting empty", "key", s.StorageKey, "err", err)
		s.metrics.StoreOp(s.Name, "load", "malformed")
		return Empty[E]()
	}
	return s.sanitize(st)
}

// Add projects v and inserts it. Adding a vehicle with no slug or one that
// is present, or adding to a full collection, returns st unchanged and
// writes nothing.
func (s *Store[E]) Add(ctx context.Context, st State[E], v domain.Vehicle) State[E] {
	e := s.Project(v)
	if s.Stamp != nil {
		e = s.Stamp(e, s.now())
	}
	next, changed := s.Collection.Add(st, e)
	if !changed {
		outcome := "noop"
		switch key := s.Key(e); {
		case key == "":
			outcome = "no_key"
		case s.Full(st) && !s.Contains(st, key):
			outcome = "capacity"
		}
		s.metrics.StoreOp(s.Name, "add", outcome)
		return st
	}
	s.persist(ctx, "add", next)
	return next
}

// Remove drops slug and persists, whether or not it was present.
func (s *Store[E]) Remove(ctx context.Context, st State[E], slug string) State[E] {
	next := s.Collection.Remove(st, slug)
	s.persist(ctx, "remove", next)
	return next
}

// Toggle removes v if present, else adds it.
func (s *Store[E]) Toggle(ctx context.Context, st State[E], v domain.Vehicle) State[E] {
	if key := s.Key(s.Project(v)); s.Contains(st, key) {
		return s.Remove(ctx, st, key)
	}
	return s.Add(ctx, st, v)
}

// Clear persists and returns an empty state.
func (s *Store[E]) Clear(ctx context.Context) State[E] {
	next := Empty[E]()
	s.persist(ctx, "clear", next)
	return next
}

func (s *Store[E]) persist(ctx context.Context, action string, st State[E]) {
	raw, err := json.Marshal(st)
	if err == nil {
		err = s.kv.Set(ctx, s.StorageKey, raw)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "persist failed", "action", action, "key", s.StorageKey, "err", err)
		s.metrics.StoreOp(s.Name, action, "persist_failed")
		return
	}
	s.metrics.StoreOp(s.Name, action, "ok")
}
