package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/repo"
)

// GraphSource serves the remote store from Neo4j. Cars are (:Car) nodes
// keyed by slug; side tables are (:MaintenanceSpec), (:KnownIssue) and
// (:ServiceInterval) nodes carrying a car_slug property.
type GraphSource struct {
	driver    neo4j.DriverWithContext
	cars      *repo.Neo4jRepo[Row, string]
	specs     *repo.Neo4jRepo[domain.MaintenanceSpec, string]
	issues    *repo.Neo4jRepo[domain.KnownIssue, string]
	intervals *repo.Neo4jRepo[domain.ServiceInterval, string]
}

var (
	_ Source = (*GraphSource)(nil)
	_ Writer = (*GraphSource)(nil)
)

// OpenNeo4j connects to url with basic auth and verifies connectivity.
func OpenNeo4j(ctx context.Context, url, user, pass string) (*GraphSource, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return nil, fmt.Errorf("remote: neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("remote: neo4j connect: %w", err)
	}
	return NewGraphSource(driver), nil
}

// NewGraphSource wraps an existing driver.
func NewGraphSource(driver neo4j.DriverWithContext) *GraphSource {
	return &GraphSource{
		driver: driver,
		cars: repo.NewNeo4jRepo[Row, string](driver, "Car", rowToProps, rowFromRecord,
			repo.WithIDKey[Row, string]("slug")),
		specs: repo.NewNeo4jRepo[domain.MaintenanceSpec, string](driver, "MaintenanceSpec", specToProps, specFromRecord,
			repo.WithIDKey[domain.MaintenanceSpec, string]("car_slug")),
		issues: repo.NewNeo4jRepo[domain.KnownIssue, string](driver, "KnownIssue", issueToProps, issueFromRecord),
		intervals: repo.NewNeo4jRepo[domain.ServiceInterval, string](driver, "ServiceInterval",
			intervalToProps, intervalFromRecord),
	}
}

// Close closes the underlying driver.
func (g *GraphSource) Close(ctx context.Context) error {
	if g.driver == nil {
		return nil
	}
	return g.driver.Close(ctx)
}

func (g *GraphSource) ListCars(ctx context.Context) ([]Row, error) {
	return g.cars.List(ctx, repo.ListOpts{OrderBy: "price_avg", All: true})
}

func (g *GraphSource) GetCar(ctx context.Context, slug string) (Row, error) {
	return g.cars.Get(ctx, slug)
}

func (g *GraphSource) MaintenanceSpec(ctx context.Context, slug string) (domain.MaintenanceSpec, error) {
	return g.specs.Get(ctx, slug)
}

func (g *GraphSource) KnownIssues(ctx context.Context, slug string) ([]domain.KnownIssue, error) {
	return g.issues.List(ctx, repo.ListOpts{Filter: map[string]any{"car_slug": slug}, OrderBy: "title"})
}

func (g *GraphSource) ServiceIntervals(ctx context.Context, slug string) ([]domain.ServiceInterval, error) {
	return g.intervals.List(ctx, repo.ListOpts{Filter: map[string]any{"car_slug": slug}, OrderBy: "miles"})
}

func (g *GraphSource) UpsertCar(ctx context.Context, row Row) error {
	if err := domain.ValidateSlug(row.Slug); err != nil {
		return err
	}
	return g.cars.Upsert(ctx, row)
}

func (g *GraphSource) UpsertMaintenanceSpec(ctx context.Context, spec domain.MaintenanceSpec) error {
	return g.specs.Upsert(ctx, spec)
}

func (g *GraphSource) UpsertKnownIssue(ctx context.Context, issue domain.KnownIssue) error {
	return g.issues.Upsert(ctx, issue)
}

func (g *GraphSource) UpsertServiceInterval(ctx context.Context, si domain.ServiceInterval) error {
	return g.intervals.Upsert(ctx, si)
}

// rowToProps flattens a Row into node properties using its snake_case
// column names. Null columns become null properties, which SET n += removes.
func rowToProps(r Row) map[string]any {
	b, _ := json.Marshal(r)
	var props map[string]any
	_ = json.Unmarshal(b, &props)
	return props
}

func rowFromRecord(rec *neo4j.Record) (Row, error) {
	props, err := nodeProps(rec)
	if err != nil {
		return Row{}, err
	}
	b, err := json.Marshal(props)
	if err != nil {
		return Row{}, fmt.Errorf("remote: encode car node: %w", err)
	}
	var r Row
	if err := json.Unmarshal(b, &r); err != nil {
		return Row{}, fmt.Errorf("remote: decode car node: %w", err)
	}
	return r, nil
}

func nodeProps(rec *neo4j.Record) (map[string]any, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return nil, fmt.Errorf("remote: record: %w", err)
	}
	return node.Props, nil
}

func specToProps(m domain.MaintenanceSpec) map[string]any {
	return map[string]any{
		"car_slug":            m.CarSlug,
		"oil_type":            m.OilType,
		"oil_capacity":        m.OilCapacity,
		"coolant_type":        m.CoolantType,
		"brake_fluid_type":    m.BrakeFluidType,
		"tire_size_front":     m.TireSizeFront,
		"tire_size_rear":      m.TireSizeRear,
		"tire_pressure_front": m.TirePressureF,
		"tire_pressure_rear":  m.TirePressureR,
	}
}

func specFromRecord(rec *neo4j.Record) (domain.MaintenanceSpec, error) {
	p, err := nodeProps(rec)
	if err != nil {
		return domain.MaintenanceSpec{}, err
	}
	return domain.MaintenanceSpec{
		CarSlug:        propString(p, "car_slug"),
		OilType:        propString(p, "oil_type"),
		OilCapacity:    propString(p, "oil_capacity"),
		CoolantType:    propString(p, "coolant_type"),
		BrakeFluidType: propString(p, "brake_fluid_type"),
		TireSizeFront:  propString(p, "tire_size_front"),
		TireSizeRear:   propString(p, "tire_size_rear"),
		TirePressureF:  propString(p, "tire_pressure_front"),
		TirePressureR:  propString(p, "tire_pressure_rear"),
	}, nil
}

func issueToProps(i domain.KnownIssue) map[string]any {
	return map[string]any{
		"id":             issueID(i),
		"car_slug":       i.CarSlug,
		"title":          i.Title,
		"severity":       i.Severity,
		"description":    i.Description,
		"affected_years": i.AffectedYears,
		"estimated_cost": i.EstimatedCost,
	}
}

func issueFromRecord(rec *neo4j.Record) (domain.KnownIssue, error) {
	p, err := nodeProps(rec)
	if err != nil {
		return domain.KnownIssue{}, err
	}
	return domain.KnownIssue{
		CarSlug:       propString(p, "car_slug"),
		Title:         propString(p, "title"),
		Severity:      propString(p, "severity"),
		Description:   propString(p, "description"),
		AffectedYears: propString(p, "affected_years"),
		EstimatedCost: propString(p, "estimated_cost"),
	}, nil
}

func intervalToProps(si domain.ServiceInterval) map[string]any {
	return map[string]any{
		"id":             intervalID(si),
		"car_slug":       si.CarSlug,
		"item":           si.Item,
		"miles":          int64(si.Miles),
		"months":         int64(si.Months),
		"estimated_cost": si.EstimatedCost,
	}
}

func intervalFromRecord(rec *neo4j.Record) (domain.ServiceInterval, error) {
	p, err := nodeProps(rec)
	if err != nil {
		return domain.ServiceInterval{}, err
	}
	return domain.ServiceInterval{
		CarSlug:       propString(p, "car_slug"),
		Item:          propString(p, "item"),
		Miles:         propInt(p, "miles"),
		Months:        propInt(p, "months"),
		EstimatedCost: propString(p, "estimated_cost"),
	}, nil
}

func propString(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

func propInt(p map[string]any, key string) int {
	switch v := p[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
