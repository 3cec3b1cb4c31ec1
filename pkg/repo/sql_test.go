package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"
)

type part struct {
	ID    string
	Make  string
	Price *float64
}

var partTable = SQLTable[part]{
	Name:     "parts",
	IDColumn: "id",
	Columns:  []string{"id", "make", "price"},
	Scan: func(s Scanner) (part, error) {
		var p part
		err := s.Scan(&p.ID, &p.Make, &p.Price)
		return p, err
	},
	Values: func(p part) []any { return []any{p.ID, p.Make, p.Price} },
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE parts (id TEXT PRIMARY KEY, make TEXT NOT NULL, price REAL)`); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func price(v float64) *float64 { return &v }

func TestSQLRepoUpsertGet(t *testing.T) {
	ctx := context.Background()
	r := NewSQLRepo[part, string](openTestDB(t), partTable)

	if err := r.Upsert(ctx, part{ID: "a", Make: "Porsche", Price: price(10)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := r.Upsert(ctx, part{ID: "a", Make: "Porsche", Price: price(12)}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	got, err := r.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price == nil || *got.Price != 12 {
		t.Fatalf("expected updated price 12, got %+v", got.Price)
	}

	if _, err := r.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLRepoListFilterOrder(t *testing.T) {
	ctx := context.Background()
	r := NewSQLRepo[part, string](openTestDB(t), partTable)
	for _, p := range []part{
		{ID: "a", Make: "Porsche", Price: price(30)},
		{ID: "b", Make: "BMW", Price: price(10)},
		{ID: "c", Make: "Porsche", Price: nil},
		{ID: "d", Make: "Porsche", Price: price(20)},
	} {
		if err := r.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.ID, err)
		}
	}

	got, err := r.List(ctx, ListOpts{Filter: map[string]any{"make": "Porsche"}, OrderBy: "price"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := ""
	for _, p := range got {
		ids += p.ID
	}
	if ids != "dac" {
		t.Fatalf("expected order dac (nulls last), got %s", ids)
	}

	desc, err := r.List(ctx, ListOpts{OrderBy: "-price", Limit: 2})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(desc) != 2 || desc[0].ID != "a" || desc[1].ID != "d" {
		t.Fatalf("unexpected desc page: %+v", desc)
	}
}

func TestSQLRepoRejectsUnsafeFields(t *testing.T) {
	r := NewSQLRepo[part, string](openTestDB(t), partTable)
	if _, err := r.List(context.Background(), ListOpts{Filter: map[string]any{"make; DROP TABLE parts": "x"}}); err == nil {
		t.Fatal("expected error for unsafe filter field")
	}
	if _, err := r.List(context.Background(), ListOpts{OrderBy: "price DESC"}); err == nil {
		t.Fatal("expected error for unsafe order field")
	}
}

func TestNewSQLRepoPanicsOnUnsafeTable(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unsafe table name")
		}
	}()
	bad := partTable
	bad.Name = "parts;"
	NewSQLRepo[part, string](nil, bad)
}

func TestSQLRepoListAll(t *testing.T) {
	ctx := context.Background()
	r := NewSQLRepo[part, string](openTestDB(t), partTable)
	total := DefaultLimit + 20
	for i := range total {
		if err := r.Upsert(ctx, part{ID: fmt.Sprintf("p%04d", i), Make: "Porsche", Price: price(float64(i))}); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	capped, err := r.List(ctx, ListOpts{OrderBy: "price"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(capped) != DefaultLimit {
		t.Fatalf("default list len = %d, want %d", len(capped), DefaultLimit)
	}

	all, err := r.List(ctx, ListOpts{OrderBy: "price", All: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != total || all[total-1].ID != fmt.Sprintf("p%04d", total-1) {
		t.Fatalf("list all len = %d, want %d", len(all), total)
	}

	rest, err := r.List(ctx, ListOpts{OrderBy: "price", All: true, Offset: 10, Limit: 1})
	if err != nil {
		t.Fatalf("list all with offset: %v", err)
	}
	if len(rest) != total-10 || rest[0].ID != "p0010" {
		t.Fatalf("offset list len = %d first = %+v", len(rest), rest[0])
	}
}
