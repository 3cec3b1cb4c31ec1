package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WessleyAI/carhub/engine/activity"
	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/relevance"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/engine/similar"
	"github.com/WessleyAI/carhub/engine/tunability"
	"github.com/WessleyAI/carhub/pkg/metrics"
)

type fakeFinder struct {
	matches []similar.Match
	err     error
	gotK    int
}

func (f *fakeFinder) Similar(_ context.Context, _ string, k int) ([]similar.Match, error) {
	f.gotK = k
	return f.matches, f.err
}

func newTestServer(t *testing.T, src remote.Source, finder similarFinder) (*server, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := metrics.New()
	s := &server{
		catalog:  catalog.New(src, catalog.WithLogger(logger), catalog.WithMetrics(reg)),
		similar:  finder,
		tracker:  activity.NewTracker(nil, activity.TrackerOpts{}, logger, reg),
		recorder: activity.NewRecorder(),
		metrics:  reg,
		logger:   logger,
	}
	return s, s.routes()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[map[string]string](t, rec)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "REMOTE_BACKEND", "QDRANT_COLLECTION", "CORS_ORIGIN", "RATE_LIMIT_RPS", "NATS_URL", "QDRANT_URL"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Backend != "sql" {
		t.Fatalf("expected sql backend, got %s", cfg.Backend)
	}
	if cfg.QdrantCollection != similar.DefaultCollection {
		t.Fatalf("expected default collection, got %s", cfg.QdrantCollection)
	}
	if cfg.RateLimitRPS != 20 {
		t.Fatalf("expected 20 rps, got %v", cfg.RateLimitRPS)
	}

	t.Setenv("RATE_LIMIT_RPS", "fast")
	if cfg := loadConfig(); cfg.RateLimitRPS != 20 {
		t.Fatalf("bad RATE_LIMIT_RPS should fall back, got %v", cfg.RateLimitRPS)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TEST_ENV_VAR_XYZ", "custom")
	if v := envOr("TEST_ENV_VAR_XYZ", "default"); v != "custom" {
		t.Fatalf("expected custom, got %s", v)
	}
	if v := envOr("NONEXISTENT_VAR_ABC", "fallback"); v != "fallback" {
		t.Fatalf("expected fallback, got %s", v)
	}
}

func TestOpenRemote(t *testing.T) {
	ctx := context.Background()
	src, closer, err := openRemote(ctx, Config{Backend: "none"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(remote.Disabled); !ok {
		t.Fatalf("expected Disabled, got %T", src)
	}
	closer()

	src, closer, err = openRemote(ctx, Config{Backend: "sql", CarsDB: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*remote.SQLSource); !ok {
		t.Fatalf("expected SQLSource, got %T", src)
	}
	if err := closer(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := openRemote(ctx, Config{Backend: "mongo"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestCarsFallBackToStatic(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	rec := do(t, h, "GET", "/api/cars", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Data-Source"); got != "static" {
		t.Fatalf("expected static source, got %q", got)
	}
	if got := rec.Header().Get("X-Data-Status"); got != "degraded" {
		t.Fatalf("expected degraded status, got %q", got)
	}
	cars := decode[[]domain.Vehicle](t, rec)
	if len(cars) != len(catalog.Static()) {
		t.Fatalf("expected %d cars, got %d", len(catalog.Static()), len(cars))
	}
}

func TestCarsFilters(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)

	cars := decode[[]domain.Vehicle](t, do(t, h, "GET", "/api/cars?tier=budget", ""))
	if len(cars) != 2 {
		t.Fatalf("expected 2 budget cars, got %d", len(cars))
	}
	for _, c := range cars {
		if c.Tier != domain.TierBudget {
			t.Fatalf("unexpected tier %s for %s", c.Tier, c.Slug)
		}
	}

	cars = decode[[]domain.Vehicle](t, do(t, h, "GET", "/api/cars?category=Mid-Engine", ""))
	for _, c := range cars {
		if c.Category != domain.CategoryMidEngine {
			t.Fatalf("unexpected category %s for %s", c.Category, c.Slug)
		}
	}
	if len(cars) == 0 {
		t.Fatal("expected mid-engine cars")
	}

	if rec := do(t, h, "GET", "/api/cars?tier=hypercar", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tier, got %d", rec.Code)
	}

	rec := do(t, h, "GET", "/api/cars?category=Space-Engine", "")
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestSearch(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	cars := decode[[]domain.Vehicle](t, do(t, h, "GET", "/api/cars/search?q=gt3", ""))
	if len(cars) != 1 || cars[0].Slug != "porsche-911-gt3" {
		t.Fatalf("expected the GT3, got %+v", cars)
	}
}

func TestCarFromRemote(t *testing.T) {
	ctx := context.Background()
	src, err := remote.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { src.Close() })
	row := remote.RowFromVehicle(domain.Vehicle{Slug: "bmw-m2", Name: "BMW M2 Competition"})
	if err := src.UpsertCar(ctx, row); err != nil {
		t.Fatal(err)
	}

	_, h := newTestServer(t, src, nil)
	rec := do(t, h, "GET", "/api/cars/bmw-m2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Data-Status"); got != "ok" {
		t.Fatalf("expected ok status, got %q", got)
	}
	if got := rec.Header().Get("X-Data-Source"); got != "mixed" {
		t.Fatalf("expected mixed source, got %q", got)
	}
	car := decode[domain.Vehicle](t, rec)
	if car.Name != "BMW M2 Competition" {
		t.Fatalf("remote name should win, got %q", car.Name)
	}
	if car.HP == nil || *car.HP != 453 {
		t.Fatalf("missing hp should fall back to static, got %v", car.HP)
	}
}

func TestCarNotFound(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	for _, path := range []string{"/api/cars/delorean-dmc-12", "/api/cars/delorean-dmc-12/detail", "/api/cars/delorean-dmc-12/tunability"} {
		if rec := do(t, h, "GET", path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestDetail(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	rec := do(t, h, "GET", "/api/cars/lotus-emira/detail", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Vehicle     domain.Vehicle      `json:"vehicle"`
		KnownIssues []domain.KnownIssue `json:"knownIssues"`
		Warnings    []string            `json:"warnings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Vehicle.Slug != "lotus-emira" {
		t.Fatalf("unexpected vehicle %q", resp.Vehicle.Slug)
	}
	if resp.KnownIssues == nil {
		t.Fatal("known issues should be an empty list, not null")
	}
}

func TestTunability(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	rec := do(t, h, "GET", "/api/cars/toyota-gr86/tunability", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	res := decode[tunability.Result](t, rec)
	if res.Score != 10 || len(res.Factors) == 0 {
		t.Fatalf("unexpected tunability %+v", res)
	}
}

func TestSimilar(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	if rec := do(t, h, "GET", "/api/cars/bmw-m2/similar", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without an index, got %d", rec.Code)
	}

	f := &fakeFinder{matches: []similar.Match{{Slug: "toyota-gr86", Name: "Toyota GR86", Score: 0.9}}}
	_, h = newTestServer(t, remote.Disabled{}, f)
	rec := do(t, h, "GET", "/api/cars/bmw-m2/similar?k=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.gotK != 5 {
		t.Fatalf("expected k=5, got %d", f.gotK)
	}
	if got := decode[[]similar.Match](t, rec); len(got) != 1 || got[0].Slug != "toyota-gr86" {
		t.Fatalf("unexpected matches %+v", got)
	}

	f.err = similar.ErrUnknownCar
	if rec := do(t, h, "GET", "/api/cars/zz/similar", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	f.err = errors.New("qdrant down")
	if rec := do(t, h, "GET", "/api/cars/bmw-m2/similar", ""); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestRelevance(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)

	body := `{"metadata":{"appliesToCategories":["Mid-Engine"]},"carSlug":"porsche-718-cayman"}`
	res := decode[relevance.Result](t, do(t, h, "POST", "/api/relevance", body))
	if res.Type != relevance.TypeAppliesToYou {
		t.Fatalf("expected APPLIES_TO_YOU, got %s", res.Type)
	}

	body = `{"metadata":{"appliesToCategories":["Mid-Engine"]},"carSlug":"toyota-gr86"}`
	res = decode[relevance.Result](t, do(t, h, "POST", "/api/relevance", body))
	if res.Type != relevance.TypeDoesNotApply {
		t.Fatalf("expected DOES_NOT_APPLY, got %s", res.Type)
	}

	body = `{"metadata":{"appliesToCategories":["Mid-Engine"]}}`
	res = decode[relevance.Result](t, do(t, h, "POST", "/api/relevance", body))
	if res.Type != relevance.TypeNoCarSelected {
		t.Fatalf("expected NO_CAR_SELECTED, got %s", res.Type)
	}

	if rec := do(t, h, "POST", "/api/relevance", "{"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/relevance", `{"carSlug":"delorean-dmc-12"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown car, got %d", rec.Code)
	}
}

func TestActivity(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)

	rec := do(t, h, "POST", "/api/activity", `{"kind":"view","carSlug":"bmw-m2"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	sid := rec.Header().Get("X-Session-ID")
	if sid == "" {
		t.Fatal("expected a session id")
	}

	rec = do(t, h, "POST", "/api/activity", `{"kind":"favorite","carSlug":"bmw-m2"}`, "X-Session-ID", sid)
	if got := decode[ActivityResponse](t, rec).SessionID; got != sid {
		t.Fatalf("session should be resumed, got %q want %q", got, sid)
	}

	rec = do(t, h, "POST", "/api/activity", `{"kind":"view"}`, "X-Session-ID", "garbage")
	if got := rec.Header().Get("X-Session-ID"); got == "garbage" || got == sid {
		t.Fatalf("invalid session id should start a new session, got %q", got)
	}

	if rec := do(t, h, "POST", "/api/activity", `{"kind":"purchase"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}

	st := decode[activity.Stats](t, do(t, h, "GET", "/api/activity/stats", ""))
	if st.Total != 3 || st.Sessions != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ByKind[activity.KindView] != 2 {
		t.Fatalf("expected 2 views, got %d", st.ByKind[activity.KindView])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, remote.Disabled{}, nil)
	do(t, h, "GET", "/api/cars", "")
	rec := do(t, h, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("carhub_catalog_resolutions_total")) {
		t.Fatal("expected catalog resolution metrics")
	}
}
