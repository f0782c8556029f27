package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jambonrider/jambon/internal/model"
)

// AddBag creates a bag with a generated id, no items and loaded=false,
// persists it, and appends it to the in-memory collection.
func (s *Store) AddBag(ctx context.Context, name, photo string) (*model.Bag, error) {
	bag := model.Bag{
		ID:        uuid.NewString(),
		Name:      name,
		Photo:     photo,
		Loaded:    false,
		Items:     []model.Item{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.port.CreateBag(ctx, &bag); err != nil {
		return nil, fmt.Errorf("persisting bag: %w", err)
	}

	s.mu.Lock()
	s.bags = append(s.bags, bag)
	s.mu.Unlock()
	return &bag, nil
}

// UpdateBag applies a partial update to a bag.
func (s *Store) UpdateBag(ctx context.Context, id string, upd model.BagUpdate) error {
	if s.BagByID(id) == nil {
		return fmt.Errorf("bag %s not found", id)
	}

	if err := s.port.UpdateBag(ctx, id, upd); err != nil {
		return fmt.Errorf("persisting bag update: %w", err)
	}

	s.mu.Lock()
	if i := s.bagIndexLocked(id); i >= 0 {
		upd.Apply(&s.bags[i])
	}
	s.mu.Unlock()
	return nil
}

// DeleteBag removes a bag and all of its items. Each item's photo (and
// the bag's own photo) is deleted individually, best-effort, before the
// row delete.
func (s *Store) DeleteBag(ctx context.Context, id string) error {
	bag := s.BagByID(id)
	if bag == nil {
		return fmt.Errorf("bag %s not found", id)
	}

	// Best-effort photo cleanup; failures never block the delete.
	for _, item := range bag.Items {
		if item.Photo != "" {
			s.port.DeletePhoto(ctx, item.Photo)
		}
	}
	if bag.Photo != "" {
		s.port.DeletePhoto(ctx, bag.Photo)
	}

	if err := s.port.DeleteBag(ctx, id); err != nil {
		return fmt.Errorf("persisting bag delete: %w", err)
	}

	s.mu.Lock()
	if i := s.bagIndexLocked(id); i >= 0 {
		s.bags = append(s.bags[:i], s.bags[i+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// MarkBagLoaded sets a bag's loaded flag. Marking a bag unloaded also
// un-checks every item of that bag, one update per item, so it can be
// re-verified on the next load.
func (s *Store) MarkBagLoaded(ctx context.Context, id string, loaded bool) error {
	bag := s.BagByID(id)
	if bag == nil {
		return fmt.Errorf("bag %s not found", id)
	}

	if err := s.port.UpdateBag(ctx, id, model.BagUpdate{Loaded: &loaded}); err != nil {
		return fmt.Errorf("persisting loaded flag: %w", err)
	}

	s.mu.Lock()
	if i := s.bagIndexLocked(id); i >= 0 {
		s.bags[i].Loaded = loaded
	}
	s.mu.Unlock()

	if loaded {
		return nil
	}

	unchecked := false
	for _, item := range bag.Items {
		if err := s.port.UpdateItem(ctx, id, item.ID, model.ItemUpdate{Checked: &unchecked}); err != nil {
			return fmt.Errorf("unchecking item %s: %w", item.ID, err)
		}
		s.mu.Lock()
		if b, j := s.itemIndexLocked(id, item.ID); b >= 0 && j >= 0 {
			s.bags[b].Items[j].Checked = false
		}
		s.mu.Unlock()
	}
	return nil
}

// Bags returns a snapshot of all bags, in collection order.
func (s *Store) Bags() []model.Bag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bag, len(s.bags))
	copy(out, s.bags)
	return out
}

// BagByID returns a copy of the bag with the given id, or nil.
func (s *Store) BagByID(id string) *model.Bag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.bagIndexLocked(id); i >= 0 {
		bag := s.bags[i]
		return &bag
	}
	return nil
}

// BagStatus returns the derived status of a bag, or StatusEmpty if no
// such bag exists.
func (s *Store) BagStatus(id string) string {
	bag := s.BagByID(id)
	if bag == nil {
		return model.StatusEmpty
	}
	return bag.Status()
}

// FilteredBags returns all bags when no layout is active, otherwise the
// bags referenced by the active layout in the layout's order. Dangling
// ids (bags deleted since the layout was saved) are dropped.
func (s *Store) FilteredBags() []model.Bag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active *model.Layout
	for i := range s.layouts {
		if s.layouts[i].IsActive {
			active = &s.layouts[i]
			break
		}
	}
	if active == nil {
		out := make([]model.Bag, len(s.bags))
		copy(out, s.bags)
		return out
	}

	return s.layoutBagsLocked(active)
}

// LayoutBags returns the bags a layout references, in the layout's
// order, with dangling ids dropped. Nil for an unknown layout.
func (s *Store) LayoutBags(layoutID string) []model.Bag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.layouts {
		if s.layouts[i].ID == layoutID {
			return s.layoutBagsLocked(&s.layouts[i])
		}
	}
	return nil
}

func (s *Store) layoutBagsLocked(layout *model.Layout) []model.Bag {
	out := []model.Bag{}
	for _, id := range layout.BagIDs {
		if i := s.bagIndexLocked(id); i >= 0 {
			out = append(out, s.bags[i])
		}
	}
	return out
}
