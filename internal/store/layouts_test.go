package store

import (
	"context"
	"testing"

	"github.com/jambonrider/jambon/internal/model"
)

func TestAtMostOneActiveLayout(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	l1, _ := s.AddLayout(ctx, "Festival", nil)
	l2, _ := s.AddLayout(ctx, "Studio", nil)
	l3, _ := s.AddLayout(ctx, "Tour", nil)

	for _, id := range []string{l1.ID, l2.ID, l3.ID, l1.ID} {
		if err := s.SetActiveLayout(ctx, id); err != nil {
			t.Fatalf("SetActiveLayout(%s): %v", id, err)
		}
		active := 0
		for _, l := range s.Layouts() {
			if l.IsActive {
				active++
			}
		}
		if active != 1 {
			t.Fatalf("expected exactly 1 active layout, got %d", active)
		}
	}

	if got := s.ActiveLayout(); got == nil || got.ID != l1.ID {
		t.Errorf("expected l1 active last, got %+v", got)
	}

	// Empty id deactivates everything.
	if err := s.SetActiveLayout(ctx, ""); err != nil {
		t.Fatalf("SetActiveLayout(\"\"): %v", err)
	}
	if s.ActiveLayout() != nil {
		t.Error("expected zero active layouts")
	}
}

func TestFilteredBags(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	b1, _ := s.AddBag(ctx, "Camera Bag", "")
	b2, _ := s.AddBag(ctx, "Audio Bag", "")
	s.AddBag(ctx, "Cable Bag", "")

	// No active layout: all bags.
	if got := s.FilteredBags(); len(got) != 3 {
		t.Fatalf("expected all 3 bags without active layout, got %d", len(got))
	}

	layout, _ := s.AddLayout(ctx, "Festival", []string{b2.ID, b1.ID})
	if err := s.SetActiveLayout(ctx, layout.ID); err != nil {
		t.Fatalf("SetActiveLayout: %v", err)
	}

	got := s.FilteredBags()
	if len(got) != 2 {
		t.Fatalf("expected 2 filtered bags, got %d", len(got))
	}
	// Layout order is preserved.
	if got[0].ID != b2.ID || got[1].ID != b1.ID {
		t.Errorf("expected layout order [audio, camera], got %v", got)
	}
}

func TestFilteredBagsDropsDanglingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	b1, _ := s.AddBag(ctx, "Camera Bag", "")
	b2, _ := s.AddBag(ctx, "Audio Bag", "")

	layout, _ := s.AddLayout(ctx, "Festival", []string{b1.ID, b2.ID})
	s.SetActiveLayout(ctx, layout.ID)

	// Deleting a bag does not prune it from the layout; readers drop it.
	if err := s.DeleteBag(ctx, b1.ID); err != nil {
		t.Fatalf("DeleteBag: %v", err)
	}
	if got := s.LayoutByID(layout.ID); len(got.BagIDs) != 2 {
		t.Fatalf("layout bagIds should be untouched by bag delete, got %v", got.BagIDs)
	}

	got := s.FilteredBags()
	if len(got) != 1 || got[0].ID != b2.ID {
		t.Errorf("expected only the surviving bag, got %v", got)
	}

	// LayoutBags drops the dangling id the same way.
	if got := s.LayoutBags(layout.ID); len(got) != 1 || got[0].ID != b2.ID {
		t.Errorf("expected LayoutBags to drop the deleted bag, got %v", got)
	}
	if got := s.LayoutBags("no-such-layout"); got != nil {
		t.Errorf("expected nil for unknown layout, got %v", got)
	}
}

func TestUpdateAndDeleteLayout(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	layout, _ := s.AddLayout(ctx, "Festival", nil)

	name := "Festival 2026"
	bagIDs := []string{"bag-1"}
	if err := s.UpdateLayout(ctx, layout.ID, model.LayoutUpdate{Name: &name, BagIDs: &bagIDs}); err != nil {
		t.Fatalf("UpdateLayout: %v", err)
	}
	got := s.LayoutByID(layout.ID)
	if got.Name != "Festival 2026" || len(got.BagIDs) != 1 {
		t.Errorf("layout update lost fields: %+v", got)
	}

	if err := s.DeleteLayout(ctx, layout.ID); err != nil {
		t.Fatalf("DeleteLayout: %v", err)
	}
	if s.LayoutByID(layout.ID) != nil {
		t.Error("expected layout gone after delete")
	}

	if err := s.SetActiveLayout(ctx, layout.ID); err == nil {
		t.Error("expected error activating a deleted layout")
	}
}
