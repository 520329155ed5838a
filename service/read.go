package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
)

// FindByPublicID returns the item with publicID, reading through the
// by-public-id cache.
func (s *Service) FindByPublicID(ctx context.Context, publicID uuid.UUID) (catalog.Item, error) {
	if publicID == uuid.Nil {
		return catalog.Item{}, catalog.NewValidationError("find", "publicId: cannot be blank")
	}
	return s.caches.ByPublicID(ctx, publicID, func(ctx context.Context) (catalog.Item, error) {
		return s.store.GetByPublicID(ctx, publicID)
	})
}

// ListAll returns one page of every item. The full listing is served from the
// all-items cache and paged in memory.
func (s *Service) ListAll(ctx context.Context, spec query.PageSpec) ([]catalog.Item, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	keys, err := query.NormalizeSort(spec.Sort)
	if err != nil {
		return nil, err
	}

	items, err := s.caches.All(ctx, func(ctx context.Context) ([]catalog.Item, error) {
		return s.store.Scan(ctx, query.All())
	})
	if err != nil {
		return nil, err
	}

	query.SortItems(items, keys)
	return query.Window(items, spec), nil
}

// FindByIndustry returns every item of industryID, reading through the
// by-industry cache.
func (s *Service) FindByIndustry(ctx context.Context, industryID uuid.UUID) ([]catalog.Item, error) {
	if industryID == uuid.Nil {
		return nil, catalog.NewValidationError("findByIndustry", "industryId: cannot be blank")
	}
	return s.caches.ByIndustry(ctx, industryID, func(ctx context.Context) ([]catalog.Item, error) {
		return s.store.Scan(ctx, query.Eq(query.FieldIndustryID, industryID))
	})
}

// FindByTitle returns the items whose title contains title, ignoring case.
// Results are not cached.
func (s *Service) FindByTitle(ctx context.Context, title string) ([]catalog.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, catalog.NewValidationError("findByTitle", "title: cannot be blank")
	}
	return s.store.Scan(ctx, query.Match(query.FieldTitle, query.MatchContains, title))
}

// Filter returns one page of the items matched by criteria. Filtered queries
// bypass the caches.
func (s *Service) Filter(ctx context.Context, criteria query.Criteria, spec query.PageSpec) ([]catalog.Item, error) {
	return s.exec.Page(ctx, s.builder.Build(criteria), spec)
}

// FilterPaged is Filter plus the total number of matches.
func (s *Service) FilterPaged(ctx context.Context, criteria query.Criteria, spec query.PageSpec) (query.PageResult[catalog.Item], error) {
	return s.exec.Counted(ctx, s.builder.Build(criteria), spec)
}
