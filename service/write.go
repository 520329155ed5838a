package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Create validates draft, assigns a public id and stores the new item.
func (s *Service) Create(ctx context.Context, draft catalog.Draft) (catalog.Item, error) {
	item, err := catalog.NewItem(draft, s.newID(), s.now())
	if err != nil {
		return catalog.Item{}, err
	}

	saved, err := s.store.Save(ctx, item)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("create %s: %w", item.PublicID, err)
	}

	s.caches.InvalidateAfterCreate(ctx, saved)
	s.logger.Debug().Stringer("public_id", saved.PublicID).Msg("item created")
	return saved, nil
}

// Update merges patch into the stored item with publicID. The stored item is
// read from the store, not the cache, so the merge never starts from a stale
// copy.
func (s *Service) Update(ctx context.Context, publicID uuid.UUID, patch catalog.Patch) (catalog.Item, error) {
	if publicID == uuid.Nil {
		return catalog.Item{}, catalog.NewValidationError("update", "publicId: cannot be blank")
	}
	if err := patch.Validate(); err != nil {
		return catalog.Item{}, &catalog.ValidationError{Op: "update", Err: err}
	}

	current, err := s.store.GetByPublicID(ctx, publicID)
	if err != nil {
		return catalog.Item{}, err
	}

	next, err := patch.Apply(current, s.now())
	if err != nil {
		return catalog.Item{}, err
	}

	saved, err := s.store.Save(ctx, next)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("update %s: %w", publicID, err)
	}

	s.caches.InvalidateAfterUpdate(ctx, current, saved)
	s.logger.Debug().Stringer("public_id", publicID).Msg("item updated")
	return saved, nil
}

// Delete removes the item with publicID.
func (s *Service) Delete(ctx context.Context, publicID uuid.UUID) error {
	if publicID == uuid.Nil {
		return catalog.NewValidationError("delete", "publicId: cannot be blank")
	}

	current, err := s.store.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByPublicID(ctx, publicID); err != nil {
		return err
	}

	s.caches.InvalidateAfterDelete(ctx, current)
	s.logger.Debug().Stringer("public_id", publicID).Msg("item deleted")
	return nil
}
