// Package catalog resolves vehicles from the remote store and the bundled
// static catalog. Every read returns a Resolution that says whether the data
// is live or a fallback.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/pkg/fn"
	"github.com/WessleyAI/carhub/pkg/metrics"
	"github.com/WessleyAI/carhub/pkg/resilience"
)

// ErrRemoteEmpty is the cause reported when the remote store answered with
// no cars and the static catalog was served instead.
var ErrRemoteEmpty = errors.New("catalog: remote store has no cars")

// Source names where a resolved value came from.
type Source string

const (
	SourceRemote Source = "remote" // every field from the remote store
	SourceMixed  Source = "mixed"  // remote rows with static fills
	SourceStatic Source = "static" // static catalog only
	SourceNone   Source = "none"   // nothing found
)

// Resolution is a catalog read: the value with its status and cause, the
// source it came from and any non-fatal warnings.
type Resolution[T any] struct {
	fn.Result[T]
	Source   Source
	Warnings []string
}

// Detail is a vehicle with its best-effort side tables.
type Detail struct {
	Vehicle          domain.Vehicle           `json:"vehicle"`
	Maintenance      *domain.MaintenanceSpec  `json:"maintenance,omitempty"`
	KnownIssues      []domain.KnownIssue      `json:"knownIssues"`
	ServiceIntervals []domain.ServiceInterval `json:"serviceIntervals"`
}

// Service resolves catalog reads. It is safe for concurrent use.
type Service struct {
	remote  remote.Source
	static  []domain.Vehicle
	bySlug  map[string]domain.Vehicle
	breaker *resilience.Breaker
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures a Service.
type Option func(*Service)

// WithStatic replaces the bundled static catalog.
func WithStatic(vs []domain.Vehicle) Option {
	return func(s *Service) { s.static = fn.Map(vs, domain.Vehicle.Clone) }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records resolutions and remote latency on m.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBreakerOpts tunes the circuit breaker around remote calls.
func WithBreakerOpts(o resilience.BreakerOpts) Option {
	return func(s *Service) { s.breaker = s.newBreaker(o) }
}

// New creates a Service over src. A nil src behaves like remote.Disabled.
func New(src remote.Source, opts ...Option) *Service {
	if src == nil {
		src = remote.Disabled{}
	}
	s := &Service{
		remote: src,
		static: Static(),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.breaker == nil {
		s.breaker = s.newBreaker(resilience.DefaultBreakerOpts)
	}
	s.bySlug = fn.IndexBy(s.static, func(v domain.Vehicle) string { return v.Slug })
	return s
}

func (s *Service) newBreaker(o resilience.BreakerOpts) *resilience.Breaker {
	o.Ignore = expected
	o.OnStateChange = func(from, to resilience.State) {
		s.logger.Warn("remote breaker state changed", "from", from.String(), "to", to.String())
		s.metrics.SetBreakerState(int(to))
	}
	return resilience.NewBreaker(o)
}

// expected reports remote outcomes that are not store failures.
func expected(err error) bool {
	return errors.Is(err, remote.ErrNotFound) ||
		errors.Is(err, remote.ErrNotConfigured) ||
		errors.Is(err, context.Canceled)
}

// call runs a remote operation through the breaker and records its latency.
func call[T any](s *Service, ctx context.Context, op string, f func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := resilience.Do(s.breaker, ctx, f)
	if !errors.Is(err, resilience.ErrCircuitOpen) && !errors.Is(err, remote.ErrNotConfigured) {
		s.metrics.RemoteSince(op, start)
	}
	return v, err
}

// logRemote logs a remote failure at a level matching how surprising it is.
func (s *Service) logRemote(ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, remote.ErrNotConfigured):
		s.logger.DebugContext(ctx, "remote not configured, using static catalog", "op", op)
	case errors.Is(err, remote.ErrNotFound):
		s.logger.DebugContext(ctx, "remote miss", "op", op, "err", err)
	default:
		s.logger.WarnContext(ctx, "remote unavailable, using static catalog", "op", op, "err", err)
	}
}

func record[T any](s *Service, op string, r Resolution[T]) Resolution[T] {
	s.metrics.Resolution(op, r.Status().String(), string(r.Source))
	return r
}

// traced runs f in a span named op and records the resolution.
func traced[T any](s *Service, ctx context.Context, op string, f func(context.Context) Resolution[T]) Resolution[T] {
	var res Resolution[T]
	fn.Traced(ctx, "catalog."+op, func(ctx context.Context) fn.Result[T] {
		res = f(ctx)
		return res.Result
	})
	return record(s, op, res)
}

// FetchAll returns every known vehicle. When the remote store has rows they
// define the result set, normalized and ordered by average price. Otherwise
// the static catalog is returned verbatim as a degraded result.
func (s *Service) FetchAll(ctx context.Context) Resolution[[]domain.Vehicle] {
	return traced(s, ctx, "fetch_all", s.fetchAll)
}

func (s *Service) fetchAll(ctx context.Context) Resolution[[]domain.Vehicle] {
	rows, err := call(s, ctx, "list_cars", s.remote.ListCars)
	if err == nil && len(rows) == 0 {
		err = ErrRemoteEmpty
	}
	if err != nil {
		s.logRemote(ctx, "fetch_all", err)
		return Resolution[[]domain.Vehicle]{
			Result: fn.Degraded(fn.Map(s.static, domain.Vehicle.Clone), err),
			Source: SourceStatic,
		}
	}

	src := SourceRemote
	out := make([]domain.Vehicle, 0, len(rows))
	for _, row := range rows {
		v, filled := normalize(row, s.lookup(row.Slug))
		if filled > 0 {
			src = SourceMixed
		}
		out = append(out, v)
	}
	// Static fills can supply a price the remote ordering did not see.
	slices.SortStableFunc(out, func(a, b domain.Vehicle) int {
		return comparePrice(a.PriceAvg, b.PriceAvg)
	})
	return Resolution[[]domain.Vehicle]{Result: fn.Ok(out), Source: src}
}

// comparePrice orders ascending with absent prices last.
func comparePrice(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

// lookup returns a private copy of the static record, so results never
// alias the catalog.
func (s *Service) lookup(slug string) *domain.Vehicle {
	if v, ok := s.bySlug[slug]; ok {
		c := v.Clone()
		return &c
	}
	return nil
}

// FetchBySlug resolves one vehicle. A remote error or miss falls back to the
// static catalog; a vehicle in neither source is a nil value, not an error.
func (s *Service) FetchBySlug(ctx context.Context, slug string) Resolution[*domain.Vehicle] {
	return traced(s, ctx, "fetch_by_slug", func(ctx context.Context) Resolution[*domain.Vehicle] {
		return s.fetchBySlug(ctx, slug)
	})
}

func (s *Service) fetchBySlug(ctx context.Context, slug string) Resolution[*domain.Vehicle] {
	if domain.ValidateSlug(slug) != nil {
		return Resolution[*domain.Vehicle]{Result: fn.Ok[*domain.Vehicle](nil), Source: SourceNone}
	}

	row, err := call(s, ctx, "get_car", func(ctx context.Context) (remote.Row, error) {
		return s.remote.GetCar(ctx, slug)
	})
	st := s.lookup(slug)
	if err == nil {
		v, filled := normalize(row, st)
		src := SourceRemote
		if filled > 0 {
			src = SourceMixed
		}
		return Resolution[*domain.Vehicle]{Result: fn.Ok(&v), Source: src}
	}

	s.logRemote(ctx, "fetch_by_slug", err)
	if st != nil {
		return Resolution[*domain.Vehicle]{Result: fn.Degraded(st, err), Source: SourceStatic}
	}
	if errors.Is(err, remote.ErrNotFound) {
		return Resolution[*domain.Vehicle]{Result: fn.Ok[*domain.Vehicle](nil), Source: SourceNone}
	}
	return Resolution[*domain.Vehicle]{Result: fn.Degraded[*domain.Vehicle](nil, err), Source: SourceNone}
}

// FetchByTier filters FetchAll by price tier.
func (s *Service) FetchByTier(ctx context.Context, tier domain.Tier) Resolution[[]domain.Vehicle] {
	return s.filter(ctx, "fetch_by_tier", func(v domain.Vehicle) bool { return v.Tier == tier })
}

// FetchByCategory filters FetchAll by layout category.
func (s *Service) FetchByCategory(ctx context.Context, category domain.Category) Resolution[[]domain.Vehicle] {
	return s.filter(ctx, "fetch_by_category", func(v domain.Vehicle) bool {
		return strings.EqualFold(string(v.Category), string(category))
	})
}

// Search matches query case-insensitively against name, engine and notes.
// An empty query matches everything.
func (s *Service) Search(ctx context.Context, query string) Resolution[[]domain.Vehicle] {
	// A Caser is stateful, so each search folds with its own.
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	return s.filter(ctx, "search", func(v domain.Vehicle) bool {
		if q == "" {
			return true
		}
		for _, field := range []string{v.Name, v.Engine, v.Notes} {
			if strings.Contains(fold.String(field), q) {
				return true
			}
		}
		return false
	})
}

func (s *Service) filter(ctx context.Context, op string, pred func(domain.Vehicle) bool) Resolution[[]domain.Vehicle] {
	return traced(s, ctx, op, func(ctx context.Context) Resolution[[]domain.Vehicle] {
		all := s.fetchAll(ctx)
		all.Result = fn.MapResult(all.Result, func(vs []domain.Vehicle) []domain.Vehicle {
			return fn.Filter(vs, pred)
		})
		return all
	})
}

// FetchDetail resolves a vehicle and fetches its side tables concurrently.
// A failed side table is left empty and reported in Warnings; it never
// fails the whole detail.
func (s *Service) FetchDetail(ctx context.Context, slug string) Resolution[*Detail] {
	return traced(s, ctx, "fetch_detail", func(ctx context.Context) Resolution[*Detail] {
		return s.fetchDetail(ctx, slug)
	})
}

func (s *Service) fetchDetail(ctx context.Context, slug string) Resolution[*Detail] {
	vr := s.fetchBySlug(ctx, slug)
	v := vr.Value()
	if v == nil {
		return Resolution[*Detail]{
			Result: fn.MapResult(vr.Result, func(*domain.Vehicle) *Detail { return nil }),
			Source: vr.Source,
		}
	}

	d := &Detail{
		Vehicle:          *v,
		KnownIssues:      []domain.KnownIssue{},
		ServiceIntervals: []domain.ServiceInterval{},
	}
	errs := fn.Settle(ctx,
		func(ctx context.Context) error {
			spec, err := call(s, ctx, "maintenance_spec", func(ctx context.Context) (domain.MaintenanceSpec, error) {
				return s.remote.MaintenanceSpec(ctx, slug)
			})
			if err == nil {
				d.Maintenance = &spec
			}
			return err
		},
		func(ctx context.Context) error {
			issues, err := call(s, ctx, "known_issues", func(ctx context.Context) ([]domain.KnownIssue, error) {
				return s.remote.KnownIssues(ctx, slug)
			})
			if err == nil && issues != nil {
				d.KnownIssues = issues
			}
			return err
		},
		func(ctx context.Context) error {
			intervals, err := call(s, ctx, "service_intervals", func(ctx context.Context) ([]domain.ServiceInterval, error) {
				return s.remote.ServiceIntervals(ctx, slug)
			})
			if err == nil && intervals != nil {
				d.ServiceIntervals = intervals
			}
			return err
		},
	)

	var (
		warnings []string
		causes   []error
	)
	if c := vr.Cause(); c != nil {
		causes = append(causes, c)
	}
	for i, name := range []string{"maintenance", "known_issues", "service_intervals"} {
		err := errs[i]
		// A car without a maintenance sheet is normal.
		if err == nil || errors.Is(err, remote.ErrNotFound) {
			continue
		}
		s.logRemote(ctx, "fetch_detail."+name, err)
		warnings = append(warnings, fmt.Sprintf("%s unavailable: %v", name, err))
		causes = append(causes, err)
	}

	res := Resolution[*Detail]{Result: fn.Ok(d), Source: vr.Source, Warnings: warnings}
	if vr.IsDegraded() || len(causes) > 0 {
		res.Result = fn.Degraded(d, errors.Join(causes...))
	}
	return res
}
