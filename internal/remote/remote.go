// Package remote is the persistence adapter backed by a hosted Firestore
// project and a Cloud Storage photo bucket. It translates between wire
// rows and the in-memory entity shapes and exposes a change-notification
// feed over the watched collections.
package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jambonrider/jambon/internal/config"
	"github.com/jambonrider/jambon/internal/model"
)

// Backend collection names.
const (
	bagsCollection    = "bags"
	itemsCollection   = "items"
	layoutsCollection = "layouts"
)

// Gateway implements the store's persistence port against Firestore.
type Gateway struct {
	client *firestore.Client
	bucket *bucketHandle
}

// New connects to the configured Firestore project and photo bucket.
// Returns (nil, nil) when no remote backend is configured: that is a
// sentinel telling the caller to fall back to local persistence, not an
// error.
func New(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	if !cfg.RemoteConfigured() {
		return nil, nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else if cfg.CredentialsJSON != "" {
		jsonKey, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding service account JSON: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(jsonKey))
	}
	// With no explicit credentials the SDK falls back to ADC.

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}

	bucket, err := newBucketHandle(ctx, app, cfg.StorageBucket)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Gateway{client: client, bucket: bucket}, nil
}

// bagDoc is the wire row for a bag. The field mapping is explicit and
// total: the photo URI lives in a distinct storage column name.
type bagDoc struct {
	Name      string    `firestore:"name"`
	PhotoURL  string    `firestore:"photo_url"`
	Loaded    bool      `firestore:"loaded"`
	CreatedAt time.Time `firestore:"created_at"`
}

// itemDoc is the wire row for an item, related to its bag by bag_id.
type itemDoc struct {
	BagID       string    `firestore:"bag_id"`
	Name        string    `firestore:"name"`
	PhotoURL    string    `firestore:"photo_url"`
	Quantity    int       `firestore:"quantity"`
	Description string    `firestore:"description"`
	Tags        []string  `firestore:"tags"`
	Checked     bool      `firestore:"checked"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (d *bagDoc) toModel(id string, items []model.Item) model.Bag {
	if items == nil {
		items = []model.Item{}
	}
	return model.Bag{
		ID:        id,
		Name:      d.Name,
		Photo:     d.PhotoURL,
		Loaded:    d.Loaded,
		Items:     items,
		CreatedAt: d.CreatedAt,
	}
}

func (d *itemDoc) toModel(id string) model.Item {
	quantity := d.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Item{
		ID:          id,
		Name:        d.Name,
		Photo:       d.PhotoURL,
		Quantity:    quantity,
		Description: d.Description,
		Tags:        tags,
		Checked:     d.Checked,
		CreatedAt:   d.CreatedAt,
	}
}

// FetchBags returns all bags with their nested items, newest bag first.
func (g *Gateway) FetchBags(ctx context.Context) ([]model.Bag, error) {
	itemsByBag, err := g.fetchItems(ctx)
	if err != nil {
		return nil, err
	}

	iter := g.client.Collection(bagsCollection).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var bags []model.Bag
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching bags: %w", err)
		}
		var doc bagDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding bag %s: %w", snap.Ref.ID, err)
		}
		bags = append(bags, doc.toModel(snap.Ref.ID, itemsByBag[snap.Ref.ID]))
	}
	return bags, nil
}

// fetchItems loads every item grouped by owning bag, oldest first within
// each bag to preserve insertion order.
func (g *Gateway) fetchItems(ctx context.Context) (map[string][]model.Item, error) {
	iter := g.client.Collection(itemsCollection).Documents(ctx)
	defer iter.Stop()

	byBag := make(map[string][]model.Item)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching items: %w", err)
		}
		var doc itemDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding item %s: %w", snap.Ref.ID, err)
		}
		byBag[doc.BagID] = append(byBag[doc.BagID], doc.toModel(snap.Ref.ID))
	}
	for _, items := range byBag {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
	}
	return byBag, nil
}

// CreateBag inserts a bag row under the bag's pre-generated id.
func (g *Gateway) CreateBag(ctx context.Context, bag *model.Bag) error {
	_, err := g.client.Collection(bagsCollection).Doc(bag.ID).Create(ctx, bagDoc{
		Name:      bag.Name,
		PhotoURL:  bag.Photo,
		Loaded:    bag.Loaded,
		CreatedAt: bag.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating bag: %w", err)
	}
	return nil
}

// UpdateBag applies a partial update to a bag row.
func (g *Gateway) UpdateBag(ctx context.Context, id string, upd model.BagUpdate) error {
	var updates []firestore.Update
	if upd.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *upd.Name})
	}
	if upd.Photo != nil {
		updates = append(updates, firestore.Update{Path: "photo_url", Value: *upd.Photo})
	}
	if upd.Loaded != nil {
		updates = append(updates, firestore.Update{Path: "loaded", Value: *upd.Loaded})
	}
	if len(updates) == 0 {
		return nil
	}
	if _, err := g.client.Collection(bagsCollection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("bag %s not found", id)
		}
		return fmt.Errorf("updating bag: %w", err)
	}
	return nil
}

// DeleteBag removes a bag row and every item row owned by it.
func (g *Gateway) DeleteBag(ctx context.Context, id string) error {
	iter := g.client.Collection(itemsCollection).Where("bag_id", "==", id).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing items of bag %s: %w", id, err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("deleting item %s: %w", snap.Ref.ID, err)
		}
	}

	if _, err := g.client.Collection(bagsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting bag: %w", err)
	}
	return nil
}

// CreateItem inserts an item row related to its owning bag.
func (g *Gateway) CreateItem(ctx context.Context, bagID string, item *model.Item) error {
	_, err := g.client.Collection(itemsCollection).Doc(item.ID).Create(ctx, itemDoc{
		BagID:       bagID,
		Name:        item.Name,
		PhotoURL:    item.Photo,
		Quantity:    item.Quantity,
		Description: item.Description,
		Tags:        item.Tags,
		Checked:     item.Checked,
		CreatedAt:   item.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// UpdateItem applies a partial update to an item row. Items are keyed by
// their own id; the bag id only names the owning relation.
func (g *Gateway) UpdateItem(ctx context.Context, bagID, itemID string, upd model.ItemUpdate) error {
	var updates []firestore.Update
	if upd.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *upd.Name})
	}
	if upd.Photo != nil {
		updates = append(updates, firestore.Update{Path: "photo_url", Value: *upd.Photo})
	}
	if upd.Quantity != nil {
		updates = append(updates, firestore.Update{Path: "quantity", Value: *upd.Quantity})
	}
	if upd.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *upd.Description})
	}
	if upd.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: *upd.Tags})
	}
	if upd.Checked != nil {
		updates = append(updates, firestore.Update{Path: "checked", Value: *upd.Checked})
	}
	if len(updates) == 0 {
		return nil
	}
	if _, err := g.client.Collection(itemsCollection).Doc(itemID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("item %s not found in bag %s", itemID, bagID)
		}
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item row.
func (g *Gateway) DeleteItem(ctx context.Context, bagID, itemID string) error {
	if _, err := g.client.Collection(itemsCollection).Doc(itemID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// Close releases the Firestore connection.
func (g *Gateway) Close() error {
	return g.client.Close()
}
