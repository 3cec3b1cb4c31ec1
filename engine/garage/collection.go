// Package garage implements the favorites and compare stores: capped,
// ordered collections of vehicle entries persisted to a key-value slot.
package garage

import (
	"errors"

	"github.com/WessleyAI/carhub/pkg/fn"
)

var (
	// ErrCapacity reports that a collection is full.
	ErrCapacity = errors.New("garage: collection is full")
	// ErrNoKey reports an item without a key, such as a vehicle with no slug.
	ErrNoKey = errors.New("garage: item has no key")
)

// Insert is where new items go.
type Insert int

const (
	Prepend Insert = iota // newest first
	Append                // selection order
)

// State is the persisted document of a store.
type State[E any] struct {
	Items []E `json:"items"`
}

// Empty returns a state with no items.
func Empty[E any]() State[E] {
	return State[E]{Items: []E{}}
}

// Len returns the number of items.
func (s State[E]) Len() int { return len(s.Items) }

// Collection is a capped, ordered set of items unique by Key. Its methods
// are pure: they never modify the input state.
type Collection[E any] struct {
	Capacity int
	Key      func(E) string
	Insert   Insert
}

// Contains reports whether an item with key is present.
func (c Collection[E]) Contains(s State[E], key string) bool {
	_, ok := fn.Find(s.Items, func(e E) bool { return c.Key(e) == key })
	return ok
}

// Full reports whether s is at capacity.
func (c Collection[E]) Full(s State[E]) bool {
	return c.Capacity > 0 && len(s.Items) >= c.Capacity
}

// Add inserts e unless its key is blank or present, or the collection is
// full. The second result reports whether the state changed.
func (c Collection[E]) Add(s State[E], e E) (State[E], bool) {
	key := c.Key(e)
	if key == "" || c.Contains(s, key) || c.Full(s) {
		return s, false
	}
	items := make([]E, 0, len(s.Items)+1)
	if c.Insert == Prepend {
		items = append(items, e)
		items = append(items, s.Items...)
	} else {
		items = append(items, s.Items...)
		items = append(items, e)
	}
	return State[E]{Items: items}, true
}

// Remove drops the item with key. Removing an absent key returns an equal
// state.
func (c Collection[E]) Remove(s State[E], key string) State[E] {
	return State[E]{Items: fn.Filter(s.Items, func(e E) bool { return c.Key(e) != key })}
}

// CanAdd explains why an item with key would not be added: nil if it would
// be or is already present, ErrNoKey for a blank key, ErrCapacity if the
// collection is full.
func (c Collection[E]) CanAdd(s State[E], key string) error {
	if key == "" {
		return ErrNoKey
	}
	if !c.Contains(s, key) && c.Full(s) {
		return ErrCapacity
	}
	return nil
}

// sanitize drops keyless and duplicate items and truncates to capacity, so
// a hand-edited or corrupted document still honours the invariants.
func (c Collection[E]) sanitize(s State[E]) State[E] {
	items := fn.Filter(s.Items, func(e E) bool { return c.Key(e) != "" })
	items = fn.UniqueBy(items, c.Key)
	if c.Capacity > 0 && len(items) > c.Capacity {
		items = items[:c.Capacity]
	}
	return State[E]{Items: items}
}
