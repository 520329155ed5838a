// Package catalog defines the catalog item record and the error taxonomy shared
// by the store, cache and service layers.
//
// An Item is created from a Draft with NewItem and changed with a Patch:
//
//	item, err := catalog.NewItem(draft, uuid.New(), time.Now())
//	next, err := patch.Apply(item, time.Now())
//
// Both paths validate the full record with ozzo-validation and report failures
// as *ValidationError, which matches ErrValidation through errors.Is. Lookups of
// absent records yield *NotFoundError (ErrNotFound) and public id collisions
// yield ErrConflict.
//
// Categories and Tags are never nil on a built item and are copied whenever an
// item crosses a layer boundary; use Item.Clone when handing an item out.
package catalog
