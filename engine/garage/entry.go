package garage

import (
	"log/slog"
	"time"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/kv"
)

// Capacities and storage keys of the two stores.
const (
	MaxFavorites = 50
	MaxCompare   = 4

	FavoritesKey = "carhub-favorites"
	CompareKey   = "carhub-compare"
)

// Entry is the display projection of a vehicle kept in a store.
type Entry struct {
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Years        string          `json:"years,omitempty"`
	Tier         domain.Tier     `json:"tier,omitempty"`
	Category     domain.Category `json:"category,omitempty"`
	HP           *float64        `json:"hp,omitempty"`
	PriceRange   string          `json:"priceRange,omitempty"`
	HeroImageURL string          `json:"heroImageUrl,omitempty"`
	AddedAt      time.Time       `json:"addedAt,omitzero"`
}

// EntryFrom projects v onto an Entry.
func EntryFrom(v domain.Vehicle) Entry {
	return Entry{
		Slug:         v.Slug,
		Name:         v.Name,
		Years:        v.Years,
		Tier:         v.Tier,
		Category:     v.Category,
		HP:           v.HP,
		PriceRange:   v.PriceRange,
		HeroImageURL: v.HeroImageURL,
	}
}

func entryKey(e Entry) string { return e.Slug }

// Favorites is the favorites store: newest first, at most MaxFavorites,
// each entry stamped with the time it was added.
func Favorites(slot kv.Store, logger *slog.Logger) *Store[Entry] {
	s := NewStore(Collection[Entry]{Capacity: MaxFavorites, Key: entryKey, Insert: Prepend},
		"favorites", FavoritesKey, EntryFrom, slot, logger)
	s.Stamp = func(e Entry, t time.Time) Entry {
		e.AddedAt = t.UTC()
		return e
	}
	return s
}

// Compare is the compare store: selection order, at most MaxCompare.
func Compare(slot kv.Store, logger *slog.Logger) *Store[Entry] {
	return NewStore(Collection[Entry]{Capacity: MaxCompare, Key: entryKey, Insert: Append},
		"compare", CompareKey, EntryFrom, slot, logger)
}
