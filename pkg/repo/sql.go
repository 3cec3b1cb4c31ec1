package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// SQLTable describes how T maps onto a relational table. Columns lists every
// column in the order Values produces them and Scan consumes them.
type SQLTable[T any] struct {
	Name     string
	IDColumn string
	Columns  []string
	Scan     func(Scanner) (T, error)
	Values   func(T) []any
}

// SQLRepo is a database/sql-backed repository. It speaks the SQLite dialect
// (positional ? parameters, ON CONFLICT upserts).
type SQLRepo[T any, ID comparable] struct {
	db    *sql.DB
	table SQLTable[T]
	cols  string
}

// NewSQLRepo creates a repository over table. Identifiers are sanitized once
// here; a table with an unsafe identifier is a programming error.
func NewSQLRepo[T any, ID comparable](db *sql.DB, table SQLTable[T]) *SQLRepo[T, ID] {
	for _, c := range append([]string{table.Name, table.IDColumn}, table.Columns...) {
		if safeIdent(c) != c || c == "" {
			panic(fmt.Sprintf("repo: unsafe SQL identifier %q", c))
		}
	}
	return &SQLRepo[T, ID]{db: db, table: table, cols: strings.Join(table.Columns, ", ")}
}

var _ Repository[any, string] = (*SQLRepo[any, string])(nil)

// Get returns the row whose IDColumn equals id, or ErrNotFound.
func (r *SQLRepo[T, ID]) Get(ctx context.Context, id ID) (T, error) {
	var zero T
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", r.cols, r.table.Name, r.table.IDColumn)
	item, err := r.table.Scan(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s %v: %w", r.table.Name, id, ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("repo: get %s: %w", r.table.Name, err)
	}
	return item, nil
}

// List returns rows matching opts.Filter, ordered and paginated.
func (r *SQLRepo[T, ID]) List(ctx context.Context, opts ListOpts) ([]T, error) {
	q, args, err := r.listQuery(opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo: list %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := r.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo: scan %s: %w", r.table.Name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo: list %s: %w", r.table.Name, err)
	}
	return items, nil
}

func (r *SQLRepo[T, ID]) listQuery(opts ListOpts) (string, []any, error) {
	where, args, err := filterClauses(opts.Filter, func(field string, _ int) string {
		return field + " = ?"
	})
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", r.cols, r.table.Name)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if field, desc := opts.orderField(); field != "" {
		if safeIdent(field) != field {
			return "", nil, fmt.Errorf("repo: invalid order field %q", field)
		}
		// NULLs sort last in both directions.
		fmt.Fprintf(&b, " ORDER BY %s IS NULL, %s", field, field)
		if desc {
			b.WriteString(" DESC")
		}
	}
	switch {
	case !opts.All:
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, opts.limit(), opts.Offset)
	case opts.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		b.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, opts.Offset)
	}
	return b.String(), args, nil
}

// Upsert inserts the row or replaces every non-key column on conflict.
func (r *SQLRepo[T, ID]) Upsert(ctx context.Context, entity T) error {
	vals := r.table.Values(entity)
	if len(vals) != len(r.table.Columns) {
		return fmt.Errorf("repo: upsert %s: %d values for %d columns", r.table.Name, len(vals), len(r.table.Columns))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
	sets := make([]string, 0, len(r.table.Columns))
	for _, c := range r.table.Columns {
		if c != r.table.IDColumn {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	conflict := "DO NOTHING"
	if len(sets) > 0 {
		conflict = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) %s",
		r.table.Name, r.cols, placeholders, r.table.IDColumn, conflict)

	if _, err := r.db.ExecContext(ctx, q, vals...); err != nil {
		return fmt.Errorf("repo: upsert %s: %w", r.table.Name, err)
	}
	return nil
}
