package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/kv"
	"github.com/WessleyAI/carhub/pkg/metrics"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func car(i int) domain.Vehicle {
	v := domain.Vehicle{
		Slug:  fmt.Sprintf("car-%d", i),
		Name:  fmt.Sprintf("Car %d", i),
		Tier:  domain.TierMid,
		Years: "2020-2024",
	}
	v.HP = domain.Float(float64(300 + i))
	return v
}

func newFavorites(t *testing.T) (*Store[Entry], *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := Favorites(mem, nil)
	s.now = func() time.Time { return fixedNow }
	return s, mem
}

// failingKV accepts reads and fails every write.
type failingKV struct{ *kv.Memory }

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for _, s := range []*Store[Entry]{Favorites(kv.NewMemory(), nil), Compare(kv.NewMemory(), nil)} {
		once := s.Add(ctx, Empty[Entry](), car(1))
		twice := s.Add(ctx, once, car(1))
		assert.Equal(t, once, twice, s.Name)
	}
}

func TestToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	s, _ := newFavorites(t)
	start := s.Add(ctx, s.Add(ctx, Empty[Entry](), car(1)), car(2))

	got := s.Toggle(ctx, s.Toggle(ctx, start, car(3)), car(3))
	assert.Equal(t, start, got)

	c := Compare(kv.NewMemory(), nil)
	empty := Empty[Entry]()
	assert.Equal(t, empty, c.Toggle(ctx, c.Toggle(ctx, empty, car(1)), car(1)))
}

func TestCompareCapacity(t *testing.T) {
	ctx := context.Background()
	s := Compare(kv.NewMemory(), nil)
	st := Empty[Entry]()
	for i := 1; i <= 4; i++ {
		st = s.Add(ctx, st, car(i))
	}
	require.Equal(t, 4, st.Len())

	fifth := s.Add(ctx, st, car(5))
	assert.Equal(t, st, fifth)
	assert.False(t, s.Contains(fifth, "car-5"))
	assert.ErrorIs(t, s.CanAdd(st, "car-5"), ErrCapacity)
	assert.NoError(t, s.CanAdd(st, "car-1"), "present item is not a capacity problem")

	// selection order
	assert.Equal(t, "car-1", st.Items[0].Slug)
	assert.Equal(t, "car-4", st.Items[3].Slug)
	assert.True(t, st.Items[0].AddedAt.IsZero(), "compare entries are not stamped")
}

func TestAddRejectsBlankSlug(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := Compare(mem, nil)

	st := s.Add(ctx, Empty[Entry](), domain.Vehicle{Name: "no slug"})
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, st, s.Load(ctx), "in-memory and persisted state agree")
	_, err := mem.Get(ctx, CompareKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "nothing persisted")

	st = s.Toggle(ctx, st, domain.Vehicle{Name: "no slug"})
	assert.Equal(t, 0, st.Len())
	assert.ErrorIs(t, s.CanAdd(st, ""), ErrNoKey)

	full := Empty[Entry]()
	for i := 1; i <= MaxCompare; i++ {
		full = s.Add(ctx, full, car(i))
	}
	assert.ErrorIs(t, s.CanAdd(full, ""), ErrNoKey)
}

func TestFavoritesCapacity(t *testing.T) {
	ctx := context.Background()
	s, _ := newFavorites(t)
	st := Empty[Entry]()
	for i := 0; i < MaxFavorites; i++ {
		st = s.Add(ctx, st, car(i))
	}
	require.Equal(t, 50, st.Len())

	next := s.Add(ctx, st, car(999))
	assert.Equal(t, 50, next.Len())
	assert.False(t, s.Contains(next, "car-999"))
}

func TestFavoritesPrependAndStamp(t *testing.T) {
	ctx := context.Background()
	s, _ := newFavorites(t)
	st := s.Add(ctx, s.Add(ctx, Empty[Entry](), car(1)), car(2))

	assert.Equal(t, []string{"car-2", "car-1"}, []string{st.Items[0].Slug, st.Items[1].Slug})
	assert.Equal(t, fixedNow, st.Items[0].AddedAt)
	assert.Equal(t, 302.0, *st.Items[0].HP)
}

func TestAddDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	s, _ := newFavorites(t)
	st := s.Add(ctx, Empty[Entry](), car(1))
	before := append([]Entry(nil), st.Items...)

	_ = s.Add(ctx, st, car(2))
	_ = s.Remove(ctx, st, "car-1")
	assert.Equal(t, before, st.Items)
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	s, mem := newFavorites(t)
	st := s.Add(ctx, Empty[Entry](), car(7))

	raw, err := mem.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "items")

	loaded := Favorites(mem, nil).Load(ctx)
	assert.Equal(t, st, loaded)
}

func TestLoadMissingOrMalformed(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := Compare(mem, nil)

	assert.Equal(t, Empty[Entry](), s.Load(ctx))

	require.NoError(t, mem.Set(ctx, CompareKey, []byte("{not json")))
	assert.Equal(t, Empty[Entry](), s.Load(ctx))
}

func TestLoadSanitizes(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	doc := `{"items":[{"slug":"a"},{"slug":"a"},{"slug":""},{"slug":"b"},{"slug":"c"},{"slug":"d"},{"slug":"e"}]}`
	require.NoError(t, mem.Set(ctx, CompareKey, []byte(doc)))

	st := Compare(mem, nil).Load(ctx)
	var got []string
	for _, e := range st.Items {
		got = append(got, e.Slug)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestRemovePersistsUnconditionally(t *testing.T) {
	ctx := context.Background()
	s, mem := newFavorites(t)
	st := s.Remove(ctx, Empty[Entry](), "never-added")
	assert.Equal(t, Empty[Entry](), st)

	_, err := mem.Get(ctx, FavoritesKey)
	assert.NoError(t, err, "remove writes even when nothing changed")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, mem := newFavorites(t)
	st := s.Add(ctx, Empty[Entry](), car(1))
	require.Equal(t, 1, st.Len())

	assert.Equal(t, Empty[Entry](), s.Clear(ctx))
	assert.Equal(t, Empty[Entry](), Favorites(mem, nil).Load(ctx))
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	s := Favorites(failingKV{kv.NewMemory()}, nil).WithMetrics(m)

	st := s.Add(ctx, Empty[Entry](), car(1))
	assert.Equal(t, 1, st.Len(), "in-memory state still advances")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("favorites", "add", "persist_failed")))
}

func TestReduce(t *testing.T) {
	ctx := context.Background()
	s, mem := newFavorites(t)
	st := Empty[Entry]()

	st = s.Reduce(ctx, st, Action[Entry]{Type: ActionAdd, Vehicle: car(1)})
	st = s.Reduce(ctx, st, Action[Entry]{Type: ActionToggle, Vehicle: car(2)})
	require.Equal(t, 2, st.Len())

	st = s.Reduce(ctx, st, Action[Entry]{Type: ActionRemove, Slug: "car-1"})
	assert.Equal(t, "car-2", st.Items[0].Slug)

	st = s.Reduce(ctx, st, Action[Entry]{Type: ActionClear})
	assert.Equal(t, 0, st.Len())

	// HYDRATE replaces state and does not write.
	require.NoError(t, mem.Delete(ctx, FavoritesKey))
	hydrated := State[Entry]{Items: []Entry{{Slug: "x"}, {Slug: "y"}}}
	st = s.Reduce(ctx, st, Action[Entry]{Type: ActionHydrate, State: hydrated})
	assert.Equal(t, hydrated, st)
	_, err := mem.Get(ctx, FavoritesKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.Equal(t, st, s.Reduce(ctx, st, Action[Entry]{Type: "BOGUS"}))
}

func TestFileStoreBacked(t *testing.T) {
	ctx := context.Background()
	fs, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s := Compare(fs, nil)
	st := s.Add(ctx, s.Load(ctx), car(1))
	assert.Equal(t, st, Compare(fs, nil).Load(ctx))
}
