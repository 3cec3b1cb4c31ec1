// Package repo defines generic read/upsert repositories over the remote
// stores the catalog can be backed by.
package repo

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no row has the requested key.
var ErrNotFound = errors.New("repo: not found")

// Repository is the storage surface the catalog needs: keyed lookup,
// filtered listing and idempotent writes for seeding.
type Repository[T any, ID comparable] interface {
	Get(ctx context.Context, id ID) (T, error)
	List(ctx context.Context, opts ListOpts) ([]T, error)
	Upsert(ctx context.Context, entity T) error
}

// ListOpts controls pagination, equality filtering and ordering for List.
type ListOpts struct {
	Offset int
	Limit  int
	// All lifts the row cap; Limit is ignored and Offset still applies.
	All bool
	// Filter holds field=value equality constraints, ANDed together.
	Filter map[string]any
	// OrderBy is a field name; prefix with "-" for descending.
	OrderBy string
}

// DefaultLimit caps List when opts.Limit is unset and opts.All is false.
const DefaultLimit = 500

func (o ListOpts) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// orderField splits OrderBy into field name and direction.
func (o ListOpts) orderField() (string, bool) {
	if len(o.OrderBy) > 0 && o.OrderBy[0] == '-' {
		return o.OrderBy[1:], true
	}
	return o.OrderBy, false
}
