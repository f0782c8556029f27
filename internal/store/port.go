package store

import (
	"context"

	"github.com/jambonrider/jambon/internal/model"
)

// Persistence is the storage port every store mutation routes through.
// Exactly one implementation is selected at startup — the Firestore-backed
// remote gateway when backend credentials are configured, the local SQLite
// adapter otherwise — and the choice never changes at runtime.
type Persistence interface {
	FetchBags(ctx context.Context) ([]model.Bag, error)
	CreateBag(ctx context.Context, bag *model.Bag) error
	UpdateBag(ctx context.Context, id string, upd model.BagUpdate) error
	DeleteBag(ctx context.Context, id string) error

	CreateItem(ctx context.Context, bagID string, item *model.Item) error
	UpdateItem(ctx context.Context, bagID, itemID string, upd model.ItemUpdate) error
	DeleteItem(ctx context.Context, bagID, itemID string) error

	FetchLayouts(ctx context.Context) ([]model.Layout, error)
	CreateLayout(ctx context.Context, layout *model.Layout) error
	UpdateLayout(ctx context.Context, id string, upd model.LayoutUpdate) error
	DeleteLayout(ctx context.Context, id string) error
	// SetActiveLayout activates the layout with the given id after
	// deactivating all others; an empty id leaves none active.
	SetActiveLayout(ctx context.Context, id string) error

	// UploadPhoto stores already-compressed photo bytes and returns a
	// resolvable URI. DeletePhoto is best-effort and never blocks the
	// owning mutation.
	UploadPhoto(ctx context.Context, data []byte, mime string) (string, error)
	DeletePhoto(ctx context.Context, uri string) error

	// Watch invokes onChange on any backend change until the returned
	// stop function is called. Local persistence returns a no-op.
	Watch(ctx context.Context, onChange func()) (func(), error)

	Close() error
}

// SessionStore persists the authenticated flag and role across restarts.
type SessionStore interface {
	Save(ctx context.Context, role string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
