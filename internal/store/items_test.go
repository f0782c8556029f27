package store

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/jambonrider/jambon/internal/local"
	"github.com/jambonrider/jambon/internal/model"
)

func testPhoto(t *testing.T) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test photo: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestAddItemDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, err := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", item.Quantity)
	}
	if item.Checked {
		t.Error("new item must start unchecked")
	}
	if item.Tags == nil {
		t.Error("expected non-nil tags")
	}

	if _, err := s.AddItem(ctx, "no-such-bag", ItemFields{Name: "x"}, nil); err == nil {
		t.Error("expected error adding to a missing bag")
	}
}

func TestAddItemWithPhoto(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, err := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, testPhoto(t))
	if err != nil {
		t.Fatalf("AddItem with photo: %v", err)
	}
	if !strings.HasPrefix(item.Photo, local.PhotoPathPrefix) {
		t.Errorf("expected stored photo URI, got %q", item.Photo)
	}
}

func TestUpdateItemReplacesPhoto(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, _ := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, testPhoto(t))
	oldURI := item.Photo

	if err := s.UpdateItem(ctx, bag.ID, item.ID, model.ItemUpdate{}, testPhoto(t)); err != nil {
		t.Fatalf("UpdateItem with new photo: %v", err)
	}

	got := s.BagByID(bag.ID).Items[0]
	if got.Photo == oldURI || got.Photo == "" {
		t.Errorf("expected replaced photo URI, got %q", got.Photo)
	}

	// The old blob is gone.
	adapter := local.New(database)
	name := strings.TrimPrefix(oldURI, local.PhotoPathPrefix)
	data, _, err := adapter.Photo(ctx, name)
	if err != nil {
		t.Fatalf("Photo: %v", err)
	}
	if data != nil {
		t.Error("expected old photo blob deleted")
	}
}

func TestUpdateItemExplicitPhotoClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, _ := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, testPhoto(t))

	empty := ""
	if err := s.UpdateItem(ctx, bag.ID, item.ID, model.ItemUpdate{Photo: &empty}, nil); err != nil {
		t.Fatalf("UpdateItem clearing photo: %v", err)
	}
	if got := s.BagByID(bag.ID).Items[0]; got.Photo != "" {
		t.Errorf("expected cleared photo, got %q", got.Photo)
	}
}

func TestDeleteItemRemovesPhoto(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, _ := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, testPhoto(t))
	name := strings.TrimPrefix(item.Photo, local.PhotoPathPrefix)

	if err := s.DeleteItem(ctx, bag.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if len(s.BagByID(bag.ID).Items) != 0 {
		t.Error("expected item gone")
	}

	data, _, err := local.New(database).Photo(ctx, name)
	if err != nil {
		t.Fatalf("Photo: %v", err)
	}
	if data != nil {
		t.Error("expected photo blob deleted with its item")
	}
}

func TestToggleItemChecked(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	item, _ := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, nil)

	if err := s.ToggleItemChecked(ctx, bag.ID, item.ID); err != nil {
		t.Fatalf("ToggleItemChecked: %v", err)
	}
	if !s.BagByID(bag.ID).Items[0].Checked {
		t.Error("expected checked after first toggle")
	}

	if err := s.ToggleItemChecked(ctx, bag.ID, item.ID); err != nil {
		t.Fatalf("ToggleItemChecked: %v", err)
	}
	if s.BagByID(bag.ID).Items[0].Checked {
		t.Error("expected unchecked after second toggle")
	}

	if err := s.ToggleItemChecked(ctx, bag.ID, "no-such-item"); err == nil {
		t.Error("expected error toggling a missing item")
	}
}

func TestItemOrderIsInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	for _, name := range []string{"Body", "Lens", "Charger"} {
		if _, err := s.AddItem(ctx, bag.ID, ItemFields{Name: name}, nil); err != nil {
			t.Fatalf("AddItem %s: %v", name, err)
		}
	}

	items := s.BagByID(bag.ID).Items
	if items[0].Name != "Body" || items[1].Name != "Lens" || items[2].Name != "Charger" {
		t.Errorf("items out of insertion order: %v", items)
	}
}
