package local

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jambonrider/jambon/internal/model"
)

func (a *Adapter) loadLayouts(ctx context.Context) ([]model.Layout, error) {
	raw, err := a.getKV(ctx, layoutsKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var layouts []model.Layout
	if err := json.Unmarshal([]byte(raw), &layouts); err != nil {
		return nil, nil
	}
	return layouts, nil
}

func (a *Adapter) saveLayouts(ctx context.Context, layouts []model.Layout) error {
	if layouts == nil {
		layouts = []model.Layout{}
	}
	data, err := json.Marshal(layouts)
	if err != nil {
		return fmt.Errorf("serializing layouts: %w", err)
	}
	return a.setKV(ctx, layoutsKey, string(data))
}

// FetchLayouts returns the persisted layout collection.
func (a *Adapter) FetchLayouts(ctx context.Context) ([]model.Layout, error) {
	return a.loadLayouts(ctx)
}

// CreateLayout appends a layout to the collection.
func (a *Adapter) CreateLayout(ctx context.Context, layout *model.Layout) error {
	layouts, err := a.loadLayouts(ctx)
	if err != nil {
		return err
	}
	layouts = append(layouts, *layout)
	return a.saveLayouts(ctx, layouts)
}

// UpdateLayout applies a partial update to a layout.
func (a *Adapter) UpdateLayout(ctx context.Context, id string, upd model.LayoutUpdate) error {
	layouts, err := a.loadLayouts(ctx)
	if err != nil {
		return err
	}
	for i := range layouts {
		if layouts[i].ID == id {
			upd.Apply(&layouts[i])
			layouts[i].UpdatedAt = time.Now().UTC()
			return a.saveLayouts(ctx, layouts)
		}
	}
	return fmt.Errorf("layout %s not found", id)
}

// DeleteLayout removes a layout.
func (a *Adapter) DeleteLayout(ctx context.Context, id string) error {
	layouts, err := a.loadLayouts(ctx)
	if err != nil {
		return err
	}
	kept := layouts[:0]
	for _, l := range layouts {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return a.saveLayouts(ctx, kept)
}

// SetActiveLayout deactivates every layout, then activates the one with
// the given id. An empty id leaves all layouts inactive.
func (a *Adapter) SetActiveLayout(ctx context.Context, id string) error {
	layouts, err := a.loadLayouts(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	found := id == ""
	for i := range layouts {
		active := layouts[i].ID == id
		if layouts[i].IsActive != active {
			layouts[i].UpdatedAt = now
		}
		layouts[i].IsActive = active
		if active {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("layout %s not found", id)
	}
	return a.saveLayouts(ctx, layouts)
}
