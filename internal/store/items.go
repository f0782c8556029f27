package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jambonrider/jambon/internal/imaging"
	"github.com/jambonrider/jambon/internal/model"
)

// ItemFields holds the caller-supplied fields for a new item.
type ItemFields struct {
	Name        string
	Quantity    int
	Description string
	Tags        []string
}

// AddItem creates an item in the given bag. A supplied photo is
// compressed and uploaded before the row is created; the item is appended
// to the owning bag's collection.
func (s *Store) AddItem(ctx context.Context, bagID string, fields ItemFields, photo io.Reader) (*model.Item, error) {
	if s.BagByID(bagID) == nil {
		return nil, fmt.Errorf("bag %s not found", bagID)
	}

	quantity := fields.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	tags := fields.Tags
	if tags == nil {
		tags = []string{}
	}

	item := model.Item{
		ID:          uuid.NewString(),
		Name:        fields.Name,
		Quantity:    quantity,
		Description: fields.Description,
		Tags:        tags,
		Checked:     false,
		CreatedAt:   time.Now().UTC(),
	}

	if photo != nil {
		uri, err := s.uploadPhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		item.Photo = uri
	}

	if err := s.port.CreateItem(ctx, bagID, &item); err != nil {
		return nil, fmt.Errorf("persisting item: %w", err)
	}

	s.mu.Lock()
	if i := s.bagIndexLocked(bagID); i >= 0 {
		s.bags[i].Items = append(s.bags[i].Items, item)
	}
	s.mu.Unlock()
	return &item, nil
}

// UpdateItem applies a partial update to an item. When a new photo is
// supplied the previous photo object is deleted first (best-effort) and
// the new one uploaded; an explicit clear (empty-string photo, no file)
// just drops the reference.
func (s *Store) UpdateItem(ctx context.Context, bagID, itemID string, upd model.ItemUpdate, photo io.Reader) error {
	current := s.itemByID(bagID, itemID)
	if current == nil {
		return fmt.Errorf("item %s not found in bag %s", itemID, bagID)
	}

	if photo != nil {
		if current.Photo != "" {
			// Best-effort: a failed cleanup must not abort the update.
			s.port.DeletePhoto(ctx, current.Photo)
		}
		uri, err := s.uploadPhoto(ctx, photo)
		if err != nil {
			return err
		}
		upd.Photo = &uri
	}

	if err := s.port.UpdateItem(ctx, bagID, itemID, upd); err != nil {
		return fmt.Errorf("persisting item update: %w", err)
	}

	s.mu.Lock()
	if b, j := s.itemIndexLocked(bagID, itemID); b >= 0 && j >= 0 {
		upd.Apply(&s.bags[b].Items[j])
	}
	s.mu.Unlock()
	return nil
}

// DeleteItem removes an item, deleting its photo object first
// (best-effort).
func (s *Store) DeleteItem(ctx context.Context, bagID, itemID string) error {
	current := s.itemByID(bagID, itemID)
	if current == nil {
		return fmt.Errorf("item %s not found in bag %s", itemID, bagID)
	}

	if current.Photo != "" {
		s.port.DeletePhoto(ctx, current.Photo)
	}

	if err := s.port.DeleteItem(ctx, bagID, itemID); err != nil {
		return fmt.Errorf("persisting item delete: %w", err)
	}

	s.mu.Lock()
	if b, j := s.itemIndexLocked(bagID, itemID); b >= 0 && j >= 0 {
		s.bags[b].Items = append(s.bags[b].Items[:j], s.bags[b].Items[j+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// ToggleItemChecked flips an item's checked flag.
func (s *Store) ToggleItemChecked(ctx context.Context, bagID, itemID string) error {
	current := s.itemByID(bagID, itemID)
	if current == nil {
		return fmt.Errorf("item %s not found in bag %s", itemID, bagID)
	}
	flipped := !current.Checked
	return s.UpdateItem(ctx, bagID, itemID, model.ItemUpdate{Checked: &flipped}, nil)
}

// itemByID returns a copy of the item, or nil.
func (s *Store) itemByID(bagID, itemID string) *model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, j := s.itemIndexLocked(bagID, itemID); b >= 0 && j >= 0 {
		item := s.bags[b].Items[j]
		return &item
	}
	return nil
}

// uploadPhoto compresses and stores a photo, returning its URI.
func (s *Store) uploadPhoto(ctx context.Context, photo io.Reader) (string, error) {
	processed, err := imaging.Process(photo)
	if err != nil {
		return "", fmt.Errorf("processing photo: %w", err)
	}
	uri, err := s.port.UploadPhoto(ctx, processed.Data, processed.MIME)
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	return uri, nil
}
