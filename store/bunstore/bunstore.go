package bunstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/store"
)

// Store is a store.Store backed by a go-repository-bun repository over the
// catalog_items table.
type Store struct {
	db     *bun.DB
	repo   repository.Repository[*itemRow]
	name   dialect.Name
	logger zerolog.Logger
}

var (
	_ store.Store       = (*Store)(nil)
	_ store.PageCounter = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New wraps db. The dialect decides how multi-valued columns are queried.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		repo:   repository.NewRepository[*itemRow](db, itemHandlers()),
		name:   db.Dialect().Name(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func itemHandlers() repository.ModelHandlers[*itemRow] {
	return repository.ModelHandlers[*itemRow]{
		NewRecord: func() *itemRow { return new(itemRow) },
		GetID: func(r *itemRow) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.PublicID
		},
		SetID: func(r *itemRow, id uuid.UUID) {
			r.PublicID = id
		},
		GetIdentifier: func() string { return "public_id" },
	}
}

func (s *Store) Get(ctx context.Context, id int64) (catalog.Item, error) {
	row, err := s.repo.GetByID(ctx, strconv.FormatInt(id, 10))
	if repository.IsRecordNotFound(err) {
		return catalog.Item{}, fmt.Errorf("get catalog item id %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Item{}, translate(fmt.Sprintf("get catalog item id %d", id), err)
	}
	return row.item(), nil
}

func (s *Store) GetByPublicID(ctx context.Context, publicID uuid.UUID) (catalog.Item, error) {
	row, err := s.repo.Get(ctx, byPublicID(publicID))
	if repository.IsRecordNotFound(err) {
		return catalog.Item{}, &catalog.NotFoundError{PublicID: publicID}
	}
	if err != nil {
		return catalog.Item{}, translate("get catalog item", err)
	}
	return row.item(), nil
}

// Scan returns every match in id order. It selects without a limit, which the
// repository's List would impose.
func (s *Store) Scan(ctx context.Context, p query.Predicate) ([]catalog.Item, error) {
	where, err := whereCriteria(p, s.name)
	if err != nil {
		return nil, err
	}
	order, err := orderCriteria([]query.SortKey{query.Ascending(query.FieldID)})
	if err != nil {
		return nil, err
	}

	var rows []*itemRow
	if err := apply(s.db.NewSelect().Model(&rows), where, order).Scan(ctx); err != nil {
		return nil, translate("scan catalog items", err)
	}
	return rowsToItems(rows), nil
}

func (s *Store) ScanPage(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, error) {
	criteria, err := s.pageQuery(p, spec)
	if err != nil {
		return nil, err
	}

	var rows []*itemRow
	if err := apply(s.db.NewSelect().Model(&rows), criteria...).Scan(ctx); err != nil {
		return nil, translate("scan catalog page", err)
	}

	s.logger.Debug().Int("page", spec.Page).Int("rows", len(rows)).Msg("bunstore page scan")
	return rowsToItems(rows), nil
}

// ScanPageCounted returns one page and the total number of matches through
// the repository's List, which counts with the same where clause.
func (s *Store) ScanPageCounted(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, int64, error) {
	criteria, err := s.pageQuery(p, spec)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, translate("list catalog page", err)
	}

	s.logger.Debug().Int("page", spec.Page).Int("rows", len(rows)).Int("total", total).Msg("bunstore counted page")
	return rowsToItems(rows), int64(total), nil
}

func (s *Store) Count(ctx context.Context, p query.Predicate) (int64, error) {
	where, err := whereCriteria(p, s.name)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx, where)
	if err != nil {
		return 0, translate("count catalog items", err)
	}
	return int64(n), nil
}

func (s *Store) Save(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	row := toRow(item)

	if row.ID == 0 {
		created, err := s.repo.Create(ctx, row)
		if err != nil {
			return catalog.Item{}, translate("insert catalog item", err)
		}
		return created.item(), nil
	}

	set, err := zeroableColumns(row)
	if err != nil {
		return catalog.Item{}, err
	}
	updated, err := s.repo.Update(ctx, row, set)
	if repository.IsRecordNotFound(err) || repository.IsSQLExpectedCountViolation(err) {
		return catalog.Item{}, fmt.Errorf("update catalog item id %d: %w", row.ID, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Item{}, translate("update catalog item", err)
	}
	return updated.item(), nil
}

func (s *Store) DeleteByPublicID(ctx context.Context, publicID uuid.UUID) error {
	if _, err := s.GetByPublicID(ctx, publicID); err != nil {
		return err
	}
	err := s.repo.DeleteWhere(ctx, repository.DeleteBy("public_id", "=", publicID.String()))
	if err != nil {
		return translate("delete catalog item", err)
	}
	return nil
}

func (s *Store) pageQuery(p query.Predicate, spec query.PageSpec) ([]repository.SelectCriteria, error) {
	keys, err := query.NormalizeSort(spec.Sort)
	if err != nil {
		return nil, err
	}
	where, err := whereCriteria(p, s.name)
	if err != nil {
		return nil, err
	}
	order, err := orderCriteria(keys)
	if err != nil {
		return nil, err
	}
	return []repository.SelectCriteria{where, order, pageCriteria(spec)}, nil
}

func byPublicID(id uuid.UUID) repository.SelectCriteria {
	return repository.SelectBy("public_id", "=", id.String())
}

// zeroableColumns pins the columns whose legitimate values are zero, since the
// repository updates with OmitZero.
func zeroableColumns(row *itemRow) (repository.UpdateCriteria, error) {
	categories, err := json.Marshal(row.Categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	tags, err := json.Marshal(row.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Value("rating", "?", row.Rating).
			Value("price", "?", row.Price.String()).
			Value("categories", "?", string(categories)).
			Value("tags", "?", string(tags))
	}, nil
}
