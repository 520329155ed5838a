// Package catalogcache holds the named caches in front of the catalog store
// and decides which entries a mutation evicts.
//
// # Caches
//
//   - byPublicID: one item per public id
//   - byIndustry: the items of one industry, keyed by industry id
//   - all: every item, in a single slot
//
// Each cache has its own value store, so TTL, capacity and backend can differ
// per cache (see Config).
//
// # Eviction
//
// Callers report every successful mutation:
//
//	created, err := repo.Save(ctx, item)
//	if err == nil {
//		caches.InvalidateAfterCreate(ctx, created)
//	}
//
// The evicted entries are:
//
//   - create: all, byIndustry(new industry)
//   - update: byPublicID, all, byIndustry(old industry), byIndustry(new industry)
//   - delete: byPublicID, all, byIndustry(industry)
//
// Filtered and paginated queries are never cached, so they need no eviction.
// Eviction errors are logged and counted, not returned.
package catalogcache
