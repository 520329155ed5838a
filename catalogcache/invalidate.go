package catalogcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// The InvalidateAfter methods run after the write has landed, so they detach
// from the caller's cancellation: a cancelled request must not leave a stale
// entry behind.

// InvalidateAfterCreate evicts the listings a new item joins: the all-items
// slot and its industry.
func (c *Caches) InvalidateAfterCreate(ctx context.Context, created catalog.Item) {
	ctx = context.WithoutCancel(ctx)
	c.evictAll(ctx)
	c.evictIndustry(ctx, created.IndustryID)
}

// InvalidateAfterUpdate evicts the item itself, the all-items slot and every
// industry listing the item was or now is a member of.
func (c *Caches) InvalidateAfterUpdate(ctx context.Context, before, after catalog.Item) {
	ctx = context.WithoutCancel(ctx)
	c.evictPublicID(ctx, after.PublicID)
	c.evictAll(ctx)
	c.evictIndustry(ctx, before.IndustryID)
	if after.IndustryID != before.IndustryID {
		c.evictIndustry(ctx, after.IndustryID)
	}
}

// InvalidateAfterDelete evicts every cache the deleted item could be in.
func (c *Caches) InvalidateAfterDelete(ctx context.Context, deleted catalog.Item) {
	ctx = context.WithoutCancel(ctx)
	c.evictPublicID(ctx, deleted.PublicID)
	c.evictAll(ctx)
	c.evictIndustry(ctx, deleted.IndustryID)
}

// Eviction failures are soft: the cache counts them and the mutation that
// triggered them still succeeds.

func (c *Caches) evictPublicID(ctx context.Context, id uuid.UUID) {
	if err := c.byPublicID.Invalidate(ctx, c.publicIDKey(id)); err != nil {
		c.logger.Warn().Err(err).Stringer("public_id", id).Msg("evict item failed")
	}
}

func (c *Caches) evictIndustry(ctx context.Context, id uuid.UUID) {
	if err := c.byIndustry.Invalidate(ctx, c.industryKey(id)); err != nil {
		c.logger.Warn().Err(err).Stringer("industry_id", id).Msg("evict industry listing failed")
	}
}

func (c *Caches) evictAll(ctx context.Context) {
	if err := c.all.Invalidate(ctx, c.allKey()); err != nil {
		c.logger.Warn().Err(err).Msg("evict all-items listing failed")
	}
}
