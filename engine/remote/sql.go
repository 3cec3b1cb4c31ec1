package remote

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/repo"
)

const schema = `
CREATE TABLE IF NOT EXISTS cars (
	slug TEXT PRIMARY KEY,
	name TEXT, brand TEXT, model TEXT, years TEXT, tier TEXT, category TEXT,
	drivetrain TEXT, powertrain TEXT, engine TEXT, transmission TEXT,
	price_range TEXT, price_avg REAL, production_volume TEXT,
	score_sound REAL, score_interior REAL, score_track REAL, score_reliability REAL,
	score_value REAL, score_driver_fun REAL, score_aftermarket REAL,
	hp REAL, torque REAL, curb_weight REAL, zero_to_sixty REAL, quarter_mile REAL,
	braking_60_0 REAL, lateral_g REAL, top_speed REAL,
	perf_power_accel REAL, perf_grip_cornering REAL, perf_braking REAL,
	perf_track_pace REAL, perf_drivability REAL, perf_reliability_heat REAL,
	perf_sound_emotion REAL,
	notes TEXT, pros TEXT, cons TEXT, best_for TEXT,
	image_hero_url TEXT, image_gallery TEXT, video_url TEXT
);

CREATE INDEX IF NOT EXISTS idx_cars_price_avg ON cars(price_avg);

CREATE TABLE IF NOT EXISTS maintenance_specs (
	car_slug TEXT PRIMARY KEY,
	oil_type TEXT, oil_capacity TEXT, coolant_type TEXT, brake_fluid_type TEXT,
	tire_size_front TEXT, tire_size_rear TEXT,
	tire_pressure_front TEXT, tire_pressure_rear TEXT
);

CREATE TABLE IF NOT EXISTS known_issues (
	id TEXT PRIMARY KEY,
	car_slug TEXT NOT NULL,
	title TEXT NOT NULL, severity TEXT, description TEXT,
	affected_years TEXT, estimated_cost TEXT
);

CREATE INDEX IF NOT EXISTS idx_known_issues_car ON known_issues(car_slug);

CREATE TABLE IF NOT EXISTS service_intervals (
	id TEXT PRIMARY KEY,
	car_slug TEXT NOT NULL,
	item TEXT NOT NULL, miles INTEGER, months INTEGER, estimated_cost TEXT
);

CREATE INDEX IF NOT EXISTS idx_service_intervals_car ON service_intervals(car_slug);
`

// SQLSource reads and seeds the remote store in a relational database.
type SQLSource struct {
	db        *sql.DB
	cars      *repo.SQLRepo[Row, string]
	specs     *repo.SQLRepo[domain.MaintenanceSpec, string]
	issues    *repo.SQLRepo[domain.KnownIssue, string]
	intervals *repo.SQLRepo[domain.ServiceInterval, string]
}

var (
	_ Source = (*SQLSource)(nil)
	_ Writer = (*SQLSource)(nil)
)

// OpenSQLite opens (creating if needed) the SQLite database at path and
// ensures the schema. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLSource, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("remote: create db dir: %w", err)
		}
		dsn = path + "?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("remote: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	src, err := NewSQLSource(context.Background(), db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}

// NewSQLSource wraps an open database and creates the schema if missing.
func NewSQLSource(ctx context.Context, db *sql.DB) (*SQLSource, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("remote: create schema: %w", err)
	}
	return &SQLSource{
		db:        db,
		cars:      repo.NewSQLRepo[Row, string](db, carsTable),
		specs:     repo.NewSQLRepo[domain.MaintenanceSpec, string](db, specsTable),
		issues:    repo.NewSQLRepo[domain.KnownIssue, string](db, issuesTable),
		intervals: repo.NewSQLRepo[domain.ServiceInterval, string](db, intervalsTable),
	}, nil
}

// Close closes the database.
func (s *SQLSource) Close() error { return s.db.Close() }

// Ping checks connectivity.
func (s *SQLSource) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLSource) ListCars(ctx context.Context) ([]Row, error) {
	return s.cars.List(ctx, repo.ListOpts{OrderBy: "price_avg", All: true})
}

func (s *SQLSource) GetCar(ctx context.Context, slug string) (Row, error) {
	return s.cars.Get(ctx, slug)
}

func (s *SQLSource) MaintenanceSpec(ctx context.Context, slug string) (domain.MaintenanceSpec, error) {
	return s.specs.Get(ctx, slug)
}

func (s *SQLSource) KnownIssues(ctx context.Context, slug string) ([]domain.KnownIssue, error) {
	return s.issues.List(ctx, repo.ListOpts{Filter: map[string]any{"car_slug": slug}, OrderBy: "title"})
}

func (s *SQLSource) ServiceIntervals(ctx context.Context, slug string) ([]domain.ServiceInterval, error) {
	return s.intervals.List(ctx, repo.ListOpts{Filter: map[string]any{"car_slug": slug}, OrderBy: "miles"})
}

func (s *SQLSource) UpsertCar(ctx context.Context, row Row) error {
	if err := domain.ValidateSlug(row.Slug); err != nil {
		return err
	}
	return s.cars.Upsert(ctx, row)
}

func (s *SQLSource) UpsertMaintenanceSpec(ctx context.Context, spec domain.MaintenanceSpec) error {
	return s.specs.Upsert(ctx, spec)
}

func (s *SQLSource) UpsertKnownIssue(ctx context.Context, issue domain.KnownIssue) error {
	return s.issues.Upsert(ctx, issue)
}

func (s *SQLSource) UpsertServiceInterval(ctx context.Context, si domain.ServiceInterval) error {
	return s.intervals.Upsert(ctx, si)
}

// jsonList stores a string list as a JSON array in a TEXT column.
type jsonList []string

func (l *jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("remote: cannot scan %T into list", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

func (l jsonList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

var carsTable = repo.SQLTable[Row]{
	Name:     "cars",
	IDColumn: "slug",
	Columns: []string{
		"slug", "name", "brand", "model", "years", "tier", "category",
		"drivetrain", "powertrain", "engine", "transmission",
		"price_range", "price_avg", "production_volume",
		"score_sound", "score_interior", "score_track", "score_reliability",
		"score_value", "score_driver_fun", "score_aftermarket",
		"hp", "torque", "curb_weight", "zero_to_sixty", "quarter_mile",
		"braking_60_0", "lateral_g", "top_speed",
		"perf_power_accel", "perf_grip_cornering", "perf_braking",
		"perf_track_pace", "perf_drivability", "perf_reliability_heat",
		"perf_sound_emotion",
		"notes", "pros", "cons", "best_for",
		"image_hero_url", "image_gallery", "video_url",
	},
	Scan: func(s repo.Scanner) (Row, error) {
		var r Row
		var pros, cons, bestFor, gallery jsonList
		err := s.Scan(
			&r.Slug, &r.Name, &r.Brand, &r.Model, &r.Years, &r.Tier, &r.Category,
			&r.Drivetrain, &r.Powertrain, &r.Engine, &r.Transmission,
			&r.PriceRange, &r.PriceAvg, &r.ProductionVolume,
			&r.ScoreSound, &r.ScoreInterior, &r.ScoreTrack, &r.ScoreReliability,
			&r.ScoreValue, &r.ScoreDriverFun, &r.ScoreAftermarket,
			&r.HP, &r.Torque, &r.CurbWeight, &r.ZeroToSixty, &r.QuarterMile,
			&r.Braking60To0, &r.LateralG, &r.TopSpeed,
			&r.PerfPowerAccel, &r.PerfGripCornering, &r.PerfBraking,
			&r.PerfTrackPace, &r.PerfDrivability, &r.PerfReliabilityHeat,
			&r.PerfSoundEmotion,
			&r.Notes, &pros, &cons, &bestFor,
			&r.HeroImageURL, &gallery, &r.VideoURL,
		)
		r.Pros, r.Cons, r.BestFor, r.Gallery = pros, cons, bestFor, gallery
		return r, err
	},
	Values: func(r Row) []any {
		return []any{
			r.Slug, r.Name, r.Brand, r.Model, r.Years, r.Tier, r.Category,
			r.Drivetrain, r.Powertrain, r.Engine, r.Transmission,
			r.PriceRange, r.PriceAvg, r.ProductionVolume,
			r.ScoreSound, r.ScoreInterior, r.ScoreTrack, r.ScoreReliability,
			r.ScoreValue, r.ScoreDriverFun, r.ScoreAftermarket,
			r.HP, r.Torque, r.CurbWeight, r.ZeroToSixty, r.QuarterMile,
			r.Braking60To0, r.LateralG, r.TopSpeed,
			r.PerfPowerAccel, r.PerfGripCornering, r.PerfBraking,
			r.PerfTrackPace, r.PerfDrivability, r.PerfReliabilityHeat,
			r.PerfSoundEmotion,
			r.Notes, jsonList(r.Pros), jsonList(r.Cons), jsonList(r.BestFor),
			r.HeroImageURL, jsonList(r.Gallery), r.VideoURL,
		}
	},
}

var specsTable = repo.SQLTable[domain.MaintenanceSpec]{
	Name:     "maintenance_specs",
	IDColumn: "car_slug",
	Columns: []string{
		"car_slug", "oil_type", "oil_capacity", "coolant_type", "brake_fluid_type",
		"tire_size_front", "tire_size_rear", "tire_pressure_front", "tire_pressure_rear",
	},
	Scan: func(s repo.Scanner) (domain.MaintenanceSpec, error) {
		var m domain.MaintenanceSpec
		var cols [8]sql.NullString
		err := s.Scan(&m.CarSlug, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7])
		m.OilType, m.OilCapacity, m.CoolantType, m.BrakeFluidType = cols[0].String, cols[1].String, cols[2].String, cols[3].String
		m.TireSizeFront, m.TireSizeRear, m.TirePressureF, m.TirePressureR = cols[4].String, cols[5].String, cols[6].String, cols[7].String
		return m, err
	},
	Values: func(m domain.MaintenanceSpec) []any {
		return []any{
			m.CarSlug, m.OilType, m.OilCapacity, m.CoolantType, m.BrakeFluidType,
			m.TireSizeFront, m.TireSizeRear, m.TirePressureF, m.TirePressureR,
		}
	},
}

var issuesTable = repo.SQLTable[domain.KnownIssue]{
	Name:     "known_issues",
	IDColumn: "id",
	Columns:  []string{"id", "car_slug", "title", "severity", "description", "affected_years", "estimated_cost"},
	Scan: func(s repo.Scanner) (domain.KnownIssue, error) {
		var (
			i    domain.KnownIssue
			id   string
			cols [4]sql.NullString
		)
		err := s.Scan(&id, &i.CarSlug, &i.Title, &cols[0], &cols[1], &cols[2], &cols[3])
		i.Severity, i.Description, i.AffectedYears, i.EstimatedCost = cols[0].String, cols[1].String, cols[2].String, cols[3].String
		return i, err
	},
	Values: func(i domain.KnownIssue) []any {
		return []any{issueID(i), i.CarSlug, i.Title, i.Severity, i.Description, i.AffectedYears, i.EstimatedCost}
	},
}

var intervalsTable = repo.SQLTable[domain.ServiceInterval]{
	Name:     "service_intervals",
	IDColumn: "id",
	Columns:  []string{"id", "car_slug", "item", "miles", "months", "estimated_cost"},
	Scan: func(s repo.Scanner) (domain.ServiceInterval, error) {
		var (
			si            domain.ServiceInterval
			id            string
			miles, months sql.NullInt64
			cost          sql.NullString
		)
		err := s.Scan(&id, &si.CarSlug, &si.Item, &miles, &months, &cost)
		si.Miles, si.Months, si.EstimatedCost = int(miles.Int64), int(months.Int64), cost.String
		return si, err
	},
	Values: func(si domain.ServiceInterval) []any {
		return []any{intervalID(si), si.CarSlug, si.Item, si.Miles, si.Months, si.EstimatedCost}
	},
}
