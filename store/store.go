package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
)

// Store is the record store consumed by the service core.
//
// Missing records are reported with errors matching catalog.ErrNotFound and
// public id collisions with catalog.ErrConflict. Any other error is a store
// failure and is propagated unchanged by callers. Implementations must return
// items the caller may freely modify.
type Store interface {
	// Get loads an item by internal key.
	Get(ctx context.Context, id int64) (catalog.Item, error)
	// GetByPublicID loads an item by public id.
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (catalog.Item, error)
	// Scan returns every item matched by p ordered by internal key.
	Scan(ctx context.Context, p query.Predicate) ([]catalog.Item, error)
	// ScanPage returns one page of items matched by p ordered by spec.Sort with
	// the internal key as final tie-breaker.
	ScanPage(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, error)
	// Count returns the number of items matched by p.
	Count(ctx context.Context, p query.Predicate) (int64, error)
	// Save inserts item when item.ID is zero and otherwise replaces the stored
	// record atomically. The saved item is returned with its internal key set.
	Save(ctx context.Context, item catalog.Item) (catalog.Item, error)
	// DeleteByPublicID removes an item, returning a not-found error when absent.
	DeleteByPublicID(ctx context.Context, publicID uuid.UUID) error
}

// PageCounter is implemented by stores that can fetch a page and the total
// number of matches in one call. Executor.Counted prefers it when present.
type PageCounter interface {
	ScanPageCounted(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, int64, error)
}
