// Package service implements the catalog operations on top of a store.Store
// and the named caches of package catalogcache.
//
// Lookups by public id, by industry and the unfiltered listing read through
// the caches. Filtered and paginated queries go to the store on every call.
// Every successful mutation evicts the cache entries it could have made stale
// before returning.
//
// Batch operations run their elements concurrently and report one
// BatchResult per element, in input order.
package service
