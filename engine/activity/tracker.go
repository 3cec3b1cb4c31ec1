package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/WessleyAI/carhub/pkg/metrics"
	"github.com/WessleyAI/carhub/pkg/natsutil"
)

// Kind is the type of a tracked interaction.
type Kind string

const (
	KindView       Kind = "view"
	KindFavorite   Kind = "favorite"
	KindUnfavorite Kind = "unfavorite"
	KindCompare    Kind = "compare"
	KindBuildSave  Kind = "build_save"
	KindSearch     Kind = "search"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindView, KindFavorite, KindUnfavorite, KindCompare, KindBuildSave, KindSearch}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// SubjectPrefix is the NATS subject namespace of activity events.
const SubjectPrefix = "carhub.activity."

// Subject returns the subject events of kind k are published on.
func Subject(k Kind) string { return SubjectPrefix + string(k) }

// Event is one interaction as reported by a client.
type Event struct {
	Kind    Kind              `json:"kind"`
	CarSlug string            `json:"carSlug,omitempty"`
	Query   string            `json:"query,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Record is the published form of an Event.
type Record struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	SessionID string            `json:"sessionId"`
	UserID    string            `json:"userId,omitempty"`
	CarSlug   string            `json:"carSlug,omitempty"`
	Query     string            `json:"query,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	At        time.Time         `json:"at"`
}

// TrackerOpts configures event throttling.
type TrackerOpts struct {
	// RPS is the sustained events per second; Burst the bucket size.
	RPS   float64
	Burst int
}

// DefaultTrackerOpts allows short bursts from an active user.
var DefaultTrackerOpts = TrackerOpts{RPS: 50, Burst: 100}

// Tracker publishes events. Tracking is fire-and-forget: failures are
// logged and counted, never returned. A Tracker with no connection is a
// no-op.
type Tracker struct {
	nc      *nats.Conn
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// NewTracker creates a tracker publishing on nc. nc may be nil to disable
// tracking.
func NewTracker(nc *nats.Conn, opts TrackerOpts, logger *slog.Logger, m *metrics.Registry) *Tracker {
	if opts.RPS <= 0 {
		opts.RPS = DefaultTrackerOpts.RPS
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultTrackerOpts.Burst
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		nc:      nc,
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Enabled reports whether events are published.
func (t *Tracker) Enabled() bool { return t != nil && t.nc != nil }

// Track publishes e for s.
func (t *Tracker) Track(ctx context.Context, s Session, e Event) {
	if !t.Enabled() {
		return
	}
	if !e.Kind.Valid() {
		t.logger.DebugContext(ctx, "dropping unknown activity kind", "kind", string(e.Kind))
		t.metrics.Activity("unknown", "invalid")
		return
	}
	if !t.limiter.Allow() {
		t.metrics.Activity(string(e.Kind), "throttled")
		return
	}

	rec := Record{
		ID:        uuid.NewString(),
		Kind:      e.Kind,
		SessionID: s.ID,
		UserID:    s.UserID,
		CarSlug:   e.CarSlug,
		Query:     e.Query,
		Meta:      e.Meta,
		At:        t.now().UTC(),
	}
	if err := natsutil.Publish(ctx, t.nc, Subject(e.Kind), rec); err != nil {
		t.logger.WarnContext(ctx, "activity publish failed", "kind", string(e.Kind), "err", err)
		t.metrics.Activity(string(e.Kind), "failed")
		return
	}
	t.metrics.Activity(string(e.Kind), "published")
}
