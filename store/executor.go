package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
)

// Executor runs paged queries against a Store. The page and the total of a
// counted query are derived from the same predicate.
type Executor struct {
	store  Store
	logger zerolog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger sets the executor logger.
func WithExecutorLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor returns an Executor over s.
func NewExecutor(s Store, opts ...ExecutorOption) *Executor {
	e := &Executor{store: s, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Page returns one page of items matched by p.
func (e *Executor) Page(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]catalog.Item, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		p = query.All()
	}

	items, err := e.store.ScanPage(ctx, p, spec)
	if err != nil {
		return nil, fmt.Errorf("scan page %d: %w", spec.Page, err)
	}

	e.logger.Debug().
		Stringer("predicate", p).
		Int("page", spec.Page).
		Int("size", spec.Size).
		Int("returned", len(items)).
		Msg("page query")
	return items, nil
}

// Counted returns one page of items matched by p together with the total
// number of matches. Stores implementing PageCounter answer both in one call;
// otherwise the page and the count run concurrently and the first failure
// cancels the other.
func (e *Executor) Counted(ctx context.Context, p query.Predicate, spec query.PageSpec) (query.PageResult[catalog.Item], error) {
	if err := spec.Validate(); err != nil {
		return query.PageResult[catalog.Item]{}, err
	}
	if p == nil {
		p = query.All()
	}

	var (
		items []catalog.Item
		total int64
	)

	if pc, ok := e.store.(PageCounter); ok {
		var err error
		items, total, err = pc.ScanPageCounted(ctx, p, spec)
		if err != nil {
			return query.PageResult[catalog.Item]{}, fmt.Errorf("counted page %d: %w", spec.Page, err)
		}
		e.logCounted(p, spec, total)
		return query.NewPageResult(items, spec, total), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = e.store.ScanPage(gctx, p, spec)
		if err != nil {
			return fmt.Errorf("scan page %d: %w", spec.Page, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = e.store.Count(gctx, p)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return query.PageResult[catalog.Item]{}, err
	}

	e.logCounted(p, spec, total)
	return query.NewPageResult(items, spec, total), nil
}

func (e *Executor) logCounted(p query.Predicate, spec query.PageSpec, total int64) {
	e.logger.Debug().
		Stringer("predicate", p).
		Int("page", spec.Page).
		Int("size", spec.Size).
		Int64("total", total).
		Msg("counted page query")
}
