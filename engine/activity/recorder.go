package activity

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/carhub/pkg/natsutil"
)

// StatsSubject is where a Recorder answers stats requests.
const StatsSubject = "carhub.stats.activity"

// topCars bounds Stats.TopCars.
const topCars = 10

// Stats summarises recorded activity.
type Stats struct {
	Total    int64          `json:"total"`
	ByKind   map[Kind]int64 `json:"byKind"`
	Sessions int            `json:"sessions"`
	TopCars  []CarCount     `json:"topCars"`
	Last     time.Time      `json:"last,omitzero"`
}

// CarCount is the number of events mentioning a car.
type CarCount struct {
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// StatsRequest asks a Recorder for its stats.
type StatsRequest struct{}

// Recorder aggregates activity records in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu       sync.Mutex
	total    int64
	byKind   map[Kind]int64
	sessions map[string]struct{}
	cars     map[string]int64
	last     time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		byKind:   make(map[Kind]int64),
		sessions: make(map[string]struct{}),
		cars:     make(map[string]int64),
	}
}

// Record adds one record. Unknown kinds are ignored.
func (r *Recorder) Record(_ context.Context, rec Record) {
	if !rec.Kind.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.byKind[rec.Kind]++
	if rec.SessionID != "" {
		r.sessions[rec.SessionID] = struct{}{}
	}
	if rec.CarSlug != "" {
		r.cars[rec.CarSlug]++
	}
	if rec.At.After(r.last) {
		r.last = rec.At
	}
}

// Stats returns a snapshot.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	top := make([]CarCount, 0, len(r.cars))
	for slug, n := range r.cars {
		top = append(top, CarCount{Slug: slug, Count: n})
	}
	slices.SortFunc(top, func(a, b CarCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	if len(top) > topCars {
		top = top[:topCars]
	}
	return Stats{
		Total:    r.total,
		ByKind:   maps.Clone(r.byKind),
		Sessions: len(r.sessions),
		TopCars:  top,
		Last:     r.last,
	}
}

// Attach subscribes the recorder to every activity subject.
func (r *Recorder) Attach(nc *nats.Conn) (*nats.Subscription, error) {
	return natsutil.Subscribe(nc, SubjectPrefix+">", r.Record)
}

// ServeStats answers StatsRequests on StatsSubject.
func (r *Recorder) ServeStats(nc *nats.Conn) (*nats.Subscription, error) {
	return natsutil.Respond(nc, StatsSubject, func(context.Context, StatsRequest) (Stats, error) {
		return r.Stats(), nil
	})
}

// QueryStats asks a remote Recorder for its stats.
func QueryStats(ctx context.Context, nc *nats.Conn) (Stats, error) {
	return natsutil.Request[StatsRequest, Stats](ctx, nc, StatsSubject, StatsRequest{})
}
