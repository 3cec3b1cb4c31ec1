package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/pkg/fn"
	"github.com/WessleyAI/carhub/pkg/metrics"
	"github.com/WessleyAI/carhub/pkg/repo"
	"github.com/WessleyAI/carhub/pkg/resilience"
)

var errTransport = errors.New("dial tcp: connection refused")

type fakeSource struct {
	mu        sync.Mutex
	rows      []remote.Row
	listErr   error
	getErr    error
	spec      *domain.MaintenanceSpec
	specErr   error
	issues    []domain.KnownIssue
	issuesErr error
	intervals []domain.ServiceInterval
	calls     int
}

func (f *fakeSource) ListCars(context.Context) ([]remote.Row, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.rows, f.listErr
}

func (f *fakeSource) GetCar(_ context.Context, slug string) (remote.Row, error) {
	if f.getErr != nil {
		return remote.Row{}, f.getErr
	}
	for _, r := range f.rows {
		if r.Slug == slug {
			return r, nil
		}
	}
	return remote.Row{}, remote.ErrNotFound
}

func (f *fakeSource) MaintenanceSpec(context.Context, string) (domain.MaintenanceSpec, error) {
	if f.specErr != nil {
		return domain.MaintenanceSpec{}, f.specErr
	}
	if f.spec == nil {
		return domain.MaintenanceSpec{}, remote.ErrNotFound
	}
	return *f.spec, nil
}

func (f *fakeSource) KnownIssues(context.Context, string) ([]domain.KnownIssue, error) {
	return f.issues, f.issuesErr
}

func (f *fakeSource) ServiceIntervals(context.Context, string) ([]domain.ServiceInterval, error) {
	return f.intervals, nil
}

func strp(s string) *string { return &s }

func slugs(vs []domain.Vehicle) []string {
	return fn.Map(vs, func(v domain.Vehicle) string { return v.Slug })
}

func TestFetchAllUnconfiguredServesStatic(t *testing.T) {
	s := New(nil)
	res := s.FetchAll(context.Background())

	require.True(t, res.IsDegraded())
	assert.ErrorIs(t, res.Cause(), remote.ErrNotConfigured)
	assert.Equal(t, SourceStatic, res.Source)
	assert.Equal(t, slugs(Static()), slugs(res.Value()))
}

func TestFetchAllTransportErrorServesStatic(t *testing.T) {
	s := New(&fakeSource{listErr: errTransport})
	res := s.FetchAll(context.Background())

	require.True(t, res.IsOk(), "catalog must stay renderable")
	assert.True(t, res.IsDegraded())
	assert.ErrorIs(t, res.Cause(), errTransport)
	assert.Len(t, res.Value(), len(Static()))
	assert.Equal(t, slugs(Static()), slugs(res.Value()))
}

func TestFetchAllEmptyRemoteServesStatic(t *testing.T) {
	s := New(&fakeSource{})
	res := s.FetchAll(context.Background())

	assert.True(t, res.IsDegraded())
	assert.ErrorIs(t, res.Cause(), ErrRemoteEmpty)
	assert.Len(t, res.Value(), len(Static()))
}

func TestFetchAllRemoteIsAuthoritative(t *testing.T) {
	src := &fakeSource{rows: []remote.Row{
		{Slug: "bmw-m2", Name: strp("BMW M2"), PriceAvg: num(66000)},
		{Slug: "remote-only-car", Name: strp("Ferrari 488"), PriceAvg: num(250000)},
		{Slug: "toyota-gr86", PriceAvg: num(31000)},
	}}
	res := New(src).FetchAll(context.Background())

	require.Equal(t, fn.StatusOK, res.Status())
	assert.Equal(t, SourceMixed, res.Source)
	assert.Equal(t, []string{"toyota-gr86", "bmw-m2", "remote-only-car"}, slugs(res.Value()))

	gr86 := res.Value()[0]
	assert.Equal(t, "Toyota GR86", gr86.Name, "name falls back to static")
	assert.Equal(t, "Ferrari", res.Value()[2].Brand, "brand inferred from name")
}

func TestFetchAllOrdersStaticFilledPrices(t *testing.T) {
	src := &fakeSource{rows: []remote.Row{
		{Slug: "porsche-911-gt3"},
		{Slug: "unknown-car", Name: strp("Mystery")},
		{Slug: "mazda-mx-5-miata", PriceAvg: num(33000)},
	}}
	res := New(src).FetchAll(context.Background())
	assert.Equal(t, []string{"mazda-mx-5-miata", "porsche-911-gt3", "unknown-car"}, slugs(res.Value()))
}

func TestFetchAllReturnsEveryRemoteRow(t *testing.T) {
	ctx := context.Background()
	src, err := remote.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	total := repo.DefaultLimit + 100
	for i := range total {
		v := domain.Vehicle{
			Slug:     fmt.Sprintf("car-%04d", i),
			Name:     fmt.Sprintf("Car %d", i),
			PriceAvg: domain.Float(float64(20000 + i)),
		}
		require.NoError(t, src.UpsertCar(ctx, remote.RowFromVehicle(v)))
	}

	res := New(src).FetchAll(ctx)
	require.Equal(t, fn.StatusOK, res.Status())
	assert.Equal(t, SourceRemote, res.Source)
	assert.Len(t, res.Value(), total)
}

func TestFetchBySlug(t *testing.T) {
	src := &fakeSource{rows: []remote.Row{{Slug: "bmw-m2", HP: num(500)}}}
	s := New(src)
	ctx := context.Background()

	t.Run("remote hit", func(t *testing.T) {
		res := s.FetchBySlug(ctx, "bmw-m2")
		require.NotNil(t, res.Value())
		assert.Equal(t, 500.0, *res.Value().HP)
		assert.Equal(t, SourceMixed, res.Source)
		assert.Equal(t, fn.StatusOK, res.Status())
	})

	t.Run("remote miss falls back to static", func(t *testing.T) {
		res := s.FetchBySlug(ctx, "lotus-emira")
		require.NotNil(t, res.Value())
		assert.Equal(t, "Lotus Emira", res.Value().Name)
		assert.Equal(t, SourceStatic, res.Source)
		assert.True(t, res.IsDegraded())
	})

	t.Run("absent everywhere", func(t *testing.T) {
		res := s.FetchBySlug(ctx, "no-such-car")
		assert.Nil(t, res.Value())
		assert.False(t, res.IsErr())
		assert.Equal(t, SourceNone, res.Source)
	})

	t.Run("invalid slug", func(t *testing.T) {
		res := s.FetchBySlug(ctx, "../etc/passwd")
		assert.Nil(t, res.Value())
		assert.False(t, res.IsErr())
	})
}

func TestResultsDoNotAliasStaticCatalog(t *testing.T) {
	ctx := context.Background()
	s := New(&fakeSource{rows: []remote.Row{{Slug: "toyota-gr86"}}})

	mixed := s.FetchBySlug(ctx, "toyota-gr86").Value()
	require.NotNil(t, mixed)
	*mixed.HP = 1
	mixed.Pros[0] = "changed"

	fallback := New(remote.Disabled{}).FetchAll(ctx).Value()
	*fallback[0].Track = 0

	again := s.FetchBySlug(ctx, "toyota-gr86").Value()
	require.NotNil(t, again)
	assert.Equal(t, 228.0, *again.HP)
	assert.Equal(t, "Price", again.Pros[0])
	assert.Equal(t, 10.0, *New(remote.Disabled{}).FetchAll(ctx).Value()[0].Track)
	assert.Equal(t, 10.0, *Static()[0].Track)
}

func TestFetchBySlugTransportError(t *testing.T) {
	s := New(&fakeSource{getErr: errTransport})

	res := s.FetchBySlug(context.Background(), "porsche-911-gt3")
	require.NotNil(t, res.Value())
	assert.True(t, res.IsDegraded())
	assert.ErrorIs(t, res.Cause(), errTransport)

	res = s.FetchBySlug(context.Background(), "no-such-car")
	assert.Nil(t, res.Value())
	assert.True(t, res.IsDegraded(), "a transport error is not a confirmed miss")
}

func TestFetchByTierAndCategory(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	budget := s.FetchByTier(ctx, domain.TierBudget)
	assert.True(t, budget.IsDegraded(), "inherits FetchAll status")
	assert.Equal(t, []string{"toyota-gr86", "mazda-mx-5-miata"}, slugs(budget.Value()))

	mid := s.FetchByCategory(ctx, domain.CategoryMidEngine)
	for _, v := range mid.Value() {
		assert.Equal(t, domain.CategoryMidEngine, v.Category)
	}
	assert.Contains(t, slugs(mid.Value()), "porsche-718-cayman")

	none := s.FetchByTier(ctx, "exotic")
	assert.NotNil(t, none.Value())
	assert.Empty(t, none.Value())
}

func TestSearch(t *testing.T) {
	s := New(nil, WithStatic([]domain.Vehicle{
		{Slug: "porsche-911-gt3", Name: "Porsche 911 GT3", Engine: "4.0L flat-six"},
		{Slug: "porsche-cayman", Name: "Porsche Cayman", Engine: "2.0L turbo flat-four"},
	}))
	ctx := context.Background()

	assert.Equal(t, []string{"porsche-911-gt3"}, slugs(s.Search(ctx, "gt3").Value()))
	assert.Equal(t, []string{"porsche-911-gt3"}, slugs(s.Search(ctx, "GT3").Value()))
	assert.Len(t, s.Search(ctx, "flat").Value(), 2, "engine is searched")
	assert.Len(t, s.Search(ctx, "").Value(), 2)
	assert.Empty(t, s.Search(ctx, "v12").Value())
}

func TestSearchNotes(t *testing.T) {
	res := New(nil).Search(context.Background(), "HYDRAULIC STEERING")
	assert.Equal(t, []string{"lotus-emira"}, slugs(res.Value()))
}

func TestFetchDetail(t *testing.T) {
	src := &fakeSource{
		rows:      []remote.Row{{Slug: "bmw-m2"}},
		spec:      &domain.MaintenanceSpec{CarSlug: "bmw-m2", OilType: "0W-30"},
		issuesErr: errTransport,
		intervals: []domain.ServiceInterval{{CarSlug: "bmw-m2", Item: "Oil", Miles: 7500}},
	}
	res := New(src).FetchDetail(context.Background(), "bmw-m2")

	d := res.Value()
	require.NotNil(t, d)
	assert.Equal(t, "BMW M2", d.Vehicle.Name)
	require.NotNil(t, d.Maintenance)
	assert.Equal(t, "0W-30", d.Maintenance.OilType)
	assert.Empty(t, d.KnownIssues, "failed side table degrades to absent")
	assert.NotNil(t, d.KnownIssues)
	assert.Len(t, d.ServiceIntervals, 1)

	assert.True(t, res.IsDegraded())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "known_issues")
	assert.ErrorIs(t, res.Cause(), errTransport)
}

func TestFetchDetailMissingSpecIsNotAWarning(t *testing.T) {
	src := &fakeSource{rows: []remote.Row{{Slug: "bmw-m2"}}}
	res := New(src).FetchDetail(context.Background(), "bmw-m2")
	require.NotNil(t, res.Value())
	assert.Nil(t, res.Value().Maintenance)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, fn.StatusOK, res.Status())
}

func TestFetchDetailUnknownSlug(t *testing.T) {
	res := New(&fakeSource{}).FetchDetail(context.Background(), "no-such-car")
	assert.Nil(t, res.Value())
	assert.False(t, res.IsErr())
}

func TestBreakerStopsHammeringRemote(t *testing.T) {
	src := &fakeSource{listErr: errTransport}
	s := New(src, WithBreakerOpts(resilience.BreakerOpts{FailThreshold: 2}))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res := s.FetchAll(ctx)
		require.True(t, res.IsDegraded())
	}
	assert.Equal(t, 2, src.calls)
	assert.ErrorIs(t, s.FetchAll(ctx).Cause(), resilience.ErrCircuitOpen)
}

func TestResolutionMetrics(t *testing.T) {
	m := metrics.New()
	s := New(nil, WithMetrics(m))
	s.FetchAll(context.Background())
	s.FetchAll(context.Background())

	got := testutil.ToFloat64(m.Resolutions.WithLabelValues("fetch_all", "degraded", "static"))
	assert.Equal(t, 2.0, got)
}
