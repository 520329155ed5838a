// Package query builds filter predicates for catalog items and carries the
// pagination and sorting types shared by every store.
//
// # Predicates
//
// A Builder turns a sparse Criteria into a single Predicate tree made of All,
// And, Or, Compare, Match and Contains nodes:
//
//	b := query.NewBuilder()
//	p := b.Build(query.Criteria{Title: ptr("pump*"), Categories: []string{"a", "b"}})
//	// (title prefix "pump" and (categories has "a" or categories has "b"))
//
// Stores translate the tree to their native query language. Matches evaluates it
// in memory with the same semantics and is what the memory store uses.
//
// # Text rules
//
// Title, Description and IndustryName are matched case-insensitively. A value
// ending in "*" (and not starting with one) is a prefix match, any other value
// is a substring match, and "*" markers are removed before matching. Blank
// values add no clause. Descriptions of Builder.ShortTextThreshold runes or
// fewer are always prefix matched.
//
// # Pagination
//
// PageSpec selects a zero-based page. Sort keys are checked against
// SortableFields (camelCase or snake_case) and NormalizeSort appends the
// internal key as a final tie-breaker so walking pages is stable.
// PageResult carries the page and the independently counted total.
package query
