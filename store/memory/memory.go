// Package memory provides an in-process store.Store. It evaluates predicates
// with query.Matches and is used by tests, the demo and the "memory" driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/store"
)

// Store keeps items in maps guarded by a RWMutex. Items are copied on the way
// in and out.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	items    map[int64]catalog.Item
	byPublic map[uuid.UUID]int64
}

var _ store.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		items:    make(map[int64]catalog.Item),
		byPublic: make(map[uuid.UUID]int64),
	}
}

// Get returns the item stored under the internal id.
func (s *Store) Get(ctx context.Context, id int64) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return catalog.Item{}, fmt.Errorf("catalog item id %d: %w", id, catalog.ErrNotFound)
	}
	return item.Clone(), nil
}

// GetByPublicID returns the item with publicID or a *catalog.NotFoundError.
func (s *Store) GetByPublicID(ctx context.Context, publicID uuid.UUID) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPublic[publicID]
	if !ok {
		return catalog.Item{}, &catalog.NotFoundError{PublicID: publicID}
	}
	return s.items[id].Clone(), nil
}

// Scan returns every match in id order.
func (s *Store) Scan(ctx context.Context, p query.Predicate) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.matching(p), nil
}

// ScanPage sorts the matches by spec.Sort and returns the requested window.
func (s *Store) ScanPage(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, error) {
	keys, err := query.NormalizeSort(spec.Sort)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := s.matching(p)
	s.mu.RUnlock()

	query.SortItems(items, keys)
	page := query.Window(items, spec)
	return append([]catalog.Item(nil), page...), nil
}

// Count returns the number of matches.
func (s *Store) Count(ctx context.Context, p query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, it := range s.items {
		if query.Matches(p, it) {
			n++
		}
	}
	return n, nil
}

// Save inserts item when its ID is 0 and replaces the stored item otherwise.
// A public id held by another item is a catalog.ErrConflict.
func (s *Store) Save(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, taken := s.byPublic[item.PublicID]; taken && owner != item.ID {
		return catalog.Item{}, fmt.Errorf("public id %s: %w", item.PublicID, catalog.ErrConflict)
	}

	if item.ID == 0 {
		s.nextID++
		item.ID = s.nextID
	} else {
		prev, ok := s.items[item.ID]
		if !ok {
			return catalog.Item{}, fmt.Errorf("catalog item id %d: %w", item.ID, catalog.ErrNotFound)
		}
		if prev.PublicID != item.PublicID {
			delete(s.byPublic, prev.PublicID)
		}
	}

	item = item.Clone()
	s.items[item.ID] = item
	s.byPublic[item.PublicID] = item.ID
	return item.Clone(), nil
}

// DeleteByPublicID removes the item with publicID.
func (s *Store) DeleteByPublicID(ctx context.Context, publicID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPublic[publicID]
	if !ok {
		return &catalog.NotFoundError{PublicID: publicID}
	}
	delete(s.byPublic, publicID)
	delete(s.items, id)
	return nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// matching returns cloned matches ordered by internal key. Callers hold mu.
func (s *Store) matching(p query.Predicate) []catalog.Item {
	out := make([]catalog.Item, 0, len(s.items))
	for _, it := range s.items {
		if query.Matches(p, it) {
			out = append(out, it.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
