package model

import "time"

// Bag statuses, derived from the loaded flag and the items' checked flags.
const (
	StatusEmpty  = "empty"
	StatusReady  = "ready"
	StatusLoaded = "loaded"
)

// Bag is a named container tracking a checklist of items and a
// loaded/unloaded state.
type Bag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo,omitempty"`
	Loaded    bool      `json:"loaded"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is a single piece of tracked equipment belonging to one bag.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Photo       string    `json:"photo,omitempty"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Checked     bool      `json:"checked"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Status returns the derived tri-state status. A bag is loaded whenever
// the flag is set, ready when it has at least one item and all items are
// checked, and empty otherwise. Recomputed on every call, never cached.
func (b *Bag) Status() string {
	if b.Loaded {
		return StatusLoaded
	}
	if allItemsChecked(b.Items) {
		return StatusReady
	}
	return StatusEmpty
}

func allItemsChecked(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Checked {
			return false
		}
	}
	return true
}

// BagUpdate describes a partial bag update. Nil fields are left unchanged.
// A non-nil Photo pointing at the empty string clears the photo.
type BagUpdate struct {
	Name   *string
	Photo  *string
	Loaded *bool
}

// Apply copies the set fields onto the bag.
func (u BagUpdate) Apply(b *Bag) {
	if u.Name != nil {
		b.Name = *u.Name
	}
	if u.Photo != nil {
		b.Photo = *u.Photo
	}
	if u.Loaded != nil {
		b.Loaded = *u.Loaded
	}
}

// ItemUpdate describes a partial item update, with the same nil-means-unchanged
// convention as BagUpdate.
type ItemUpdate struct {
	Name        *string
	Photo       *string
	Quantity    *int
	Description *string
	Tags        *[]string
	Checked     *bool
}

// Apply copies the set fields onto the item.
func (u ItemUpdate) Apply(item *Item) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Photo != nil {
		item.Photo = *u.Photo
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Tags != nil {
		item.Tags = *u.Tags
	}
	if u.Checked != nil {
		item.Checked = *u.Checked
	}
}
