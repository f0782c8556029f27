package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jambonrider/jambon/internal/model"
)

// AddLayout creates a layout referencing the given bag ids. New layouts
// start inactive.
func (s *Store) AddLayout(ctx context.Context, name string, bagIDs []string) (*model.Layout, error) {
	if bagIDs == nil {
		bagIDs = []string{}
	}
	now := time.Now().UTC()
	layout := model.Layout{
		ID:        uuid.NewString(),
		Name:      name,
		BagIDs:    bagIDs,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.port.CreateLayout(ctx, &layout); err != nil {
		return nil, fmt.Errorf("persisting layout: %w", err)
	}

	s.mu.Lock()
	s.layouts = append(s.layouts, layout)
	s.mu.Unlock()
	return &layout, nil
}

// UpdateLayout applies a partial update to a layout.
func (s *Store) UpdateLayout(ctx context.Context, id string, upd model.LayoutUpdate) error {
	if s.LayoutByID(id) == nil {
		return fmt.Errorf("layout %s not found", id)
	}

	if err := s.port.UpdateLayout(ctx, id, upd); err != nil {
		return fmt.Errorf("persisting layout update: %w", err)
	}

	s.mu.Lock()
	for i := range s.layouts {
		if s.layouts[i].ID == id {
			upd.Apply(&s.layouts[i])
			s.layouts[i].UpdatedAt = time.Now().UTC()
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteLayout removes a layout. Bags referenced by it are untouched.
func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	if s.LayoutByID(id) == nil {
		return fmt.Errorf("layout %s not found", id)
	}

	if err := s.port.DeleteLayout(ctx, id); err != nil {
		return fmt.Errorf("persisting layout delete: %w", err)
	}

	s.mu.Lock()
	for i := range s.layouts {
		if s.layouts[i].ID == id {
			s.layouts = append(s.layouts[:i], s.layouts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// SetActiveLayout makes the layout with the given id the only active one.
// An empty id deactivates every layout ("show all bags").
func (s *Store) SetActiveLayout(ctx context.Context, id string) error {
	if id != "" && s.LayoutByID(id) == nil {
		return fmt.Errorf("layout %s not found", id)
	}

	if err := s.port.SetActiveLayout(ctx, id); err != nil {
		return fmt.Errorf("persisting active layout: %w", err)
	}

	s.mu.Lock()
	for i := range s.layouts {
		s.layouts[i].IsActive = s.layouts[i].ID == id && id != ""
	}
	s.mu.Unlock()
	return nil
}

// Layouts returns a snapshot of all layouts.
func (s *Store) Layouts() []model.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Layout, len(s.layouts))
	copy(out, s.layouts)
	return out
}

// LayoutByID returns a copy of the layout with the given id, or nil.
func (s *Store) LayoutByID(id string) *model.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.layouts {
		if s.layouts[i].ID == id {
			layout := s.layouts[i]
			return &layout
		}
	}
	return nil
}

// ActiveLayout returns a copy of the active layout, or nil when none is
// active.
func (s *Store) ActiveLayout() *model.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.layouts {
		if s.layouts[i].IsActive {
			layout := s.layouts[i]
			return &layout
		}
	}
	return nil
}
