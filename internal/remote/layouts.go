package remote

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jambonrider/jambon/internal/model"
)

// layoutDoc is the wire row for a layout. BagIDs carries bare bag ids
// with no enforced foreign-key constraint.
type layoutDoc struct {
	Name      string    `firestore:"name"`
	BagIDs    []string  `firestore:"bag_ids"`
	IsActive  bool      `firestore:"is_active"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *layoutDoc) toModel(id string) model.Layout {
	bagIDs := d.BagIDs
	if bagIDs == nil {
		bagIDs = []string{}
	}
	return model.Layout{
		ID:        id,
		Name:      d.Name,
		BagIDs:    bagIDs,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// FetchLayouts returns all layouts, oldest first.
func (g *Gateway) FetchLayouts(ctx context.Context) ([]model.Layout, error) {
	iter := g.client.Collection(layoutsCollection).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var layouts []model.Layout
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching layouts: %w", err)
		}
		var doc layoutDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding layout %s: %w", snap.Ref.ID, err)
		}
		layouts = append(layouts, doc.toModel(snap.Ref.ID))
	}
	return layouts, nil
}

// CreateLayout inserts a layout row.
func (g *Gateway) CreateLayout(ctx context.Context, layout *model.Layout) error {
	_, err := g.client.Collection(layoutsCollection).Doc(layout.ID).Create(ctx, layoutDoc{
		Name:      layout.Name,
		BagIDs:    layout.BagIDs,
		IsActive:  layout.IsActive,
		CreatedAt: layout.CreatedAt,
		UpdatedAt: layout.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating layout: %w", err)
	}
	return nil
}

// UpdateLayout applies a partial update to a layout row.
func (g *Gateway) UpdateLayout(ctx context.Context, id string, upd model.LayoutUpdate) error {
	updates := []firestore.Update{
		{Path: "updated_at", Value: time.Now().UTC()},
	}
	if upd.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *upd.Name})
	}
	if upd.BagIDs != nil {
		updates = append(updates, firestore.Update{Path: "bag_ids", Value: *upd.BagIDs})
	}
	if _, err := g.client.Collection(layoutsCollection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("layout %s not found", id)
		}
		return fmt.Errorf("updating layout: %w", err)
	}
	return nil
}

// DeleteLayout removes a layout row.
func (g *Gateway) DeleteLayout(ctx context.Context, id string) error {
	if _, err := g.client.Collection(layoutsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	return nil
}

// SetActiveLayout deactivates every active layout, then activates the one
// with the given id (empty id leaves none active). The two steps are not
// wrapped in a transaction: a crash in between leaves zero layouts
// active, which reads as "no layout selected".
func (g *Gateway) SetActiveLayout(ctx context.Context, id string) error {
	iter := g.client.Collection(layoutsCollection).Where("is_active", "==", true).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing active layouts: %w", err)
		}
		_, err = snap.Ref.Update(ctx, []firestore.Update{
			{Path: "is_active", Value: false},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
		if err != nil {
			return fmt.Errorf("deactivating layout %s: %w", snap.Ref.ID, err)
		}
	}

	if id == "" {
		return nil
	}

	_, err := g.client.Collection(layoutsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "is_active", Value: true},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("layout %s not found", id)
		}
		return fmt.Errorf("activating layout: %w", err)
	}
	return nil
}
