package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// BatchResult is the outcome of one batch element. Results are reported in
// input order; Err is nil on success.
type BatchResult struct {
	Index    int
	PublicID uuid.UUID
	Item     catalog.Item
	Err      error
}

// OK reports whether the element succeeded.
func (r BatchResult) OK() bool { return r.Err == nil }

// BatchUpdate is one element of UpdateBatch.
type BatchUpdate struct {
	PublicID uuid.UUID
	Patch    catalog.Patch
}

// CreateBatch creates every draft. Elements run concurrently and fail
// independently.
func (s *Service) CreateBatch(ctx context.Context, drafts []catalog.Draft) []BatchResult {
	return s.runBatch(ctx, len(drafts), func(ctx context.Context, i int) BatchResult {
		item, err := s.Create(ctx, drafts[i])
		return BatchResult{Index: i, PublicID: item.PublicID, Item: item, Err: err}
	})
}

// UpdateBatch applies every update. Elements run concurrently and fail
// independently.
func (s *Service) UpdateBatch(ctx context.Context, updates []BatchUpdate) []BatchResult {
	return s.runBatch(ctx, len(updates), func(ctx context.Context, i int) BatchResult {
		u := updates[i]
		item, err := s.Update(ctx, u.PublicID, u.Patch)
		return BatchResult{Index: i, PublicID: u.PublicID, Item: item, Err: err}
	})
}

// DeleteBatch deletes every public id. Elements run concurrently and fail
// independently.
func (s *Service) DeleteBatch(ctx context.Context, publicIDs []uuid.UUID) []BatchResult {
	return s.runBatch(ctx, len(publicIDs), func(ctx context.Context, i int) BatchResult {
		return BatchResult{Index: i, PublicID: publicIDs[i], Err: s.Delete(ctx, publicIDs[i])}
	})
}

// runBatch runs fn for indexes [0, n) with at most batchLimit in flight.
// Element errors are recorded, never returned to the group, so one failure
// does not cancel its siblings.
func (s *Service) runBatch(ctx context.Context, n int, fn func(context.Context, int) BatchResult) []BatchResult {
	results := make([]BatchResult, n)

	var g errgroup.Group
	g.SetLimit(s.batchLimit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Debug().Int("size", n).Int("failed", failed).Msg("batch finished")
	return results
}
