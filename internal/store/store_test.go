package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jambonrider/jambon/internal/db"
	"github.com/jambonrider/jambon/internal/local"
	"github.com/jambonrider/jambon/internal/model"
)

const (
	testAdminSecret = "admin-secret"
	testUserSecret  = "user-secret"
)

// newTestStore builds a store over the local adapter with an in-memory
// database, exercising the same persistence path as local mode.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	s := New(local.New(database), local.NewSessions(database), Options{
		AdminSecret: testAdminSecret,
		UserSecret:  testUserSecret,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, database
}

// TestBagLifecycleScenario follows a bag through its full status cycle:
// empty on creation, still empty with an unchecked item, ready once the
// item is checked, loaded when marked, and back to empty (with the item
// unchecked) after unloading.
func TestBagLifecycleScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, err := s.AddBag(ctx, "Camera Bag", "")
	if err != nil {
		t.Fatalf("AddBag: %v", err)
	}
	if got := s.BagStatus(bag.ID); got != model.StatusEmpty {
		t.Errorf("new bag: expected %q, got %q", model.StatusEmpty, got)
	}

	item, err := s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens"}, nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got := s.BagStatus(bag.ID); got != model.StatusEmpty {
		t.Errorf("unchecked item: expected %q, got %q", model.StatusEmpty, got)
	}

	if err := s.ToggleItemChecked(ctx, bag.ID, item.ID); err != nil {
		t.Fatalf("ToggleItemChecked: %v", err)
	}
	if got := s.BagStatus(bag.ID); got != model.StatusReady {
		t.Errorf("all checked: expected %q, got %q", model.StatusReady, got)
	}

	if err := s.MarkBagLoaded(ctx, bag.ID, true); err != nil {
		t.Fatalf("MarkBagLoaded(true): %v", err)
	}
	if got := s.BagStatus(bag.ID); got != model.StatusLoaded {
		t.Errorf("loaded: expected %q, got %q", model.StatusLoaded, got)
	}

	if err := s.MarkBagLoaded(ctx, bag.ID, false); err != nil {
		t.Fatalf("MarkBagLoaded(false): %v", err)
	}
	got := s.BagByID(bag.ID)
	if got.Items[0].Checked {
		t.Error("unloading should un-check every item")
	}
	if status := s.BagStatus(bag.ID); status != model.StatusEmpty {
		t.Errorf("after unload: expected %q, got %q", model.StatusEmpty, status)
	}
}

func TestBagStatusAbsentBagIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	if got := s.BagStatus("no-such-bag"); got != model.StatusEmpty {
		t.Errorf("expected %q for absent bag, got %q", model.StatusEmpty, got)
	}
}

func TestAddBagDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, err := s.AddBag(ctx, "Audio Bag", "")
	if err != nil {
		t.Fatalf("AddBag: %v", err)
	}
	if bag.ID == "" {
		t.Error("expected generated id")
	}
	if bag.Loaded {
		t.Error("new bag must start unloaded")
	}
	if bag.Items == nil || len(bag.Items) != 0 {
		t.Errorf("new bag must start with empty items, got %v", bag.Items)
	}
	if bag.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}

func TestUpdateAndDeleteBag(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Old Name", "")

	name := "New Name"
	if err := s.UpdateBag(ctx, bag.ID, model.BagUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateBag: %v", err)
	}
	if got := s.BagByID(bag.ID); got.Name != "New Name" {
		t.Errorf("expected renamed bag, got %q", got.Name)
	}

	if err := s.DeleteBag(ctx, bag.ID); err != nil {
		t.Fatalf("DeleteBag: %v", err)
	}
	if s.BagByID(bag.ID) != nil {
		t.Error("expected bag gone after delete")
	}

	if err := s.DeleteBag(ctx, bag.ID); err == nil {
		t.Error("expected error deleting a missing bag")
	}
}

// TestMutationsSurviveReload verifies the in-memory state and the
// persisted collection agree: a fresh store over the same database sees
// everything the first store wrote.
func TestMutationsSurviveReload(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	bag, _ := s.AddBag(ctx, "Camera Bag", "")
	s.AddItem(ctx, bag.ID, ItemFields{Name: "Lens", Quantity: 2, Tags: []string{"optics"}}, nil)
	s.AddLayout(ctx, "Festival", []string{bag.ID})

	reloaded := New(local.New(database), local.NewSessions(database), Options{})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load on fresh store: %v", err)
	}

	got := reloaded.BagByID(bag.ID)
	if got == nil {
		t.Fatal("expected bag after reload")
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Lens" || got.Items[0].Quantity != 2 {
		t.Errorf("item lost across reload: %+v", got.Items)
	}
	if len(reloaded.Layouts()) != 1 {
		t.Errorf("expected 1 layout after reload, got %d", len(reloaded.Layouts()))
	}
}

// TestRefreshReplacesStateWholesale simulates a change notification:
// another writer mutates the backend, Refresh overwrites local state.
func TestRefreshReplacesStateWholesale(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	s.AddBag(ctx, "Mine", "")

	// A second store over the same backend acts as the concurrent writer.
	other := New(local.New(database), local.NewSessions(database), Options{})
	if err := other.Load(ctx); err != nil {
		t.Fatalf("Load other: %v", err)
	}
	other.AddBag(ctx, "Theirs", "")

	if len(s.Bags()) != 1 {
		t.Fatalf("expected stale view before refresh, got %d bags", len(s.Bags()))
	}
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(s.Bags()) != 2 {
		t.Errorf("expected 2 bags after refresh, got %d", len(s.Bags()))
	}
}
