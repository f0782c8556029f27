// Package local is the persistence adapter used when no remote backend is
// configured. The whole bag and layout collections are serialized as JSON
// documents in a SQLite key-value slot; every mutation rewrites the whole
// document. Corrupt or missing data is treated as "no data", not an error.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jambonrider/jambon/internal/model"
)

// KV keys for the serialized collections.
const (
	bagsKey    = "bags"
	layoutsKey = "layouts"
)

// Adapter implements the store's persistence port over a local SQLite
// database.
type Adapter struct {
	db *sql.DB
}

// New creates an adapter over an open database. The caller owns the
// database handle and its lifetime.
func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// getKV reads a KV slot. A missing key returns ("", nil).
func (a *Adapter) getKV(ctx context.Context, key string) (string, error) {
	var value string
	err := a.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// setKV writes a KV slot, replacing any existing value.
func (a *Adapter) setKV(ctx context.Context, key, value string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// loadBags deserializes the bag collection. Corrupt JSON reads as empty.
func (a *Adapter) loadBags(ctx context.Context) ([]model.Bag, error) {
	raw, err := a.getKV(ctx, bagsKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var bags []model.Bag
	if err := json.Unmarshal([]byte(raw), &bags); err != nil {
		return nil, nil
	}
	return bags, nil
}

// saveBags serializes the whole bag collection into its slot.
func (a *Adapter) saveBags(ctx context.Context, bags []model.Bag) error {
	if bags == nil {
		bags = []model.Bag{}
	}
	data, err := json.Marshal(bags)
	if err != nil {
		return fmt.Errorf("serializing bags: %w", err)
	}
	return a.setKV(ctx, bagsKey, string(data))
}

// FetchBags returns the persisted bag collection.
func (a *Adapter) FetchBags(ctx context.Context) ([]model.Bag, error) {
	return a.loadBags(ctx)
}

// CreateBag appends a bag to the collection.
func (a *Adapter) CreateBag(ctx context.Context, bag *model.Bag) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	bags = append(bags, *bag)
	return a.saveBags(ctx, bags)
}

// UpdateBag applies a partial update to a bag.
func (a *Adapter) UpdateBag(ctx context.Context, id string, upd model.BagUpdate) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	for i := range bags {
		if bags[i].ID == id {
			upd.Apply(&bags[i])
			return a.saveBags(ctx, bags)
		}
	}
	return fmt.Errorf("bag %s not found", id)
}

// DeleteBag removes a bag (and, implicitly, its nested items).
func (a *Adapter) DeleteBag(ctx context.Context, id string) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	kept := bags[:0]
	for _, b := range bags {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return a.saveBags(ctx, kept)
}

// CreateItem appends an item to its owning bag.
func (a *Adapter) CreateItem(ctx context.Context, bagID string, item *model.Item) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	for i := range bags {
		if bags[i].ID == bagID {
			bags[i].Items = append(bags[i].Items, *item)
			return a.saveBags(ctx, bags)
		}
	}
	return fmt.Errorf("bag %s not found", bagID)
}

// UpdateItem applies a partial update to an item.
func (a *Adapter) UpdateItem(ctx context.Context, bagID, itemID string, upd model.ItemUpdate) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	for i := range bags {
		if bags[i].ID != bagID {
			continue
		}
		for j := range bags[i].Items {
			if bags[i].Items[j].ID == itemID {
				upd.Apply(&bags[i].Items[j])
				return a.saveBags(ctx, bags)
			}
		}
	}
	return fmt.Errorf("item %s not found in bag %s", itemID, bagID)
}

// DeleteItem removes an item from its owning bag.
func (a *Adapter) DeleteItem(ctx context.Context, bagID, itemID string) error {
	bags, err := a.loadBags(ctx)
	if err != nil {
		return err
	}
	for i := range bags {
		if bags[i].ID != bagID {
			continue
		}
		kept := bags[i].Items[:0]
		for _, item := range bags[i].Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		bags[i].Items = kept
		return a.saveBags(ctx, bags)
	}
	return fmt.Errorf("bag %s not found", bagID)
}

// Watch is a no-op for local persistence: there is no change feed, the
// in-memory store is the only writer.
func (a *Adapter) Watch(ctx context.Context, onChange func()) (func(), error) {
	return func() {}, nil
}

// Close releases nothing; the database handle is owned by the caller.
func (a *Adapter) Close() error {
	return nil
}
