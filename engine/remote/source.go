// Package remote is the client side of the remote car store: a typed row
// schema, the Source interface the catalog reads through, and SQL and Neo4j
// implementations.
package remote

import (
	"context"
	"errors"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/repo"
)

var (
	// ErrNotConfigured is returned by Disabled for every call.
	ErrNotConfigured = errors.New("remote: data source not configured")
	// ErrNotFound is returned when a slug has no row. It matches repo.ErrNotFound.
	ErrNotFound = repo.ErrNotFound
)

// Source is the read surface of the remote store.
type Source interface {
	// ListCars returns every car row ordered by price_avg ascending.
	ListCars(ctx context.Context) ([]Row, error)
	// GetCar returns the row with the exact slug or ErrNotFound.
	GetCar(ctx context.Context, slug string) (Row, error)
	// MaintenanceSpec returns the fluids sheet for a car or ErrNotFound.
	MaintenanceSpec(ctx context.Context, slug string) (domain.MaintenanceSpec, error)
	KnownIssues(ctx context.Context, slug string) ([]domain.KnownIssue, error)
	ServiceIntervals(ctx context.Context, slug string) ([]domain.ServiceInterval, error)
}

// Writer is implemented by sources that can be seeded.
type Writer interface {
	UpsertCar(ctx context.Context, row Row) error
	UpsertMaintenanceSpec(ctx context.Context, spec domain.MaintenanceSpec) error
	UpsertKnownIssue(ctx context.Context, issue domain.KnownIssue) error
	UpsertServiceInterval(ctx context.Context, si domain.ServiceInterval) error
}

// Disabled is the Source used when no remote store is configured.
type Disabled struct{}

var _ Source = Disabled{}

func (Disabled) ListCars(context.Context) ([]Row, error) { return nil, ErrNotConfigured }
func (Disabled) GetCar(context.Context, string) (Row, error) {
	return Row{}, ErrNotConfigured
}
func (Disabled) MaintenanceSpec(context.Context, string) (domain.MaintenanceSpec, error) {
	return domain.MaintenanceSpec{}, ErrNotConfigured
}
func (Disabled) KnownIssues(context.Context, string) ([]domain.KnownIssue, error) {
	return nil, ErrNotConfigured
}
func (Disabled) ServiceIntervals(context.Context, string) ([]domain.ServiceInterval, error) {
	return nil, ErrNotConfigured
}

// issueID and intervalID key side-table rows that have no natural id.
func issueID(i domain.KnownIssue) string {
	return i.CarSlug + ":" + domain.Slugify(i.Title)
}

func intervalID(s domain.ServiceInterval) string {
	return s.CarSlug + ":" + domain.Slugify(s.Item)
}
