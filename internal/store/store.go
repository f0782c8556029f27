// Package store owns the in-memory registry of bags and layouts and the
// session state. Mutations update the configured persistence backend
// first, then the in-memory copy; in remote mode a change-notification
// feed triggers a full refetch that replaces the in-memory state
// wholesale, so the registry eventually converges to the backend with no
// delta merging (last write wins).
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jambonrider/jambon/internal/model"
)

// Options configures a store.
type Options struct {
	// Remote marks the persistence port as a remote backend with a
	// change feed worth watching.
	Remote bool

	// Login secrets, plaintext or bcrypt hashes.
	AdminSecret string
	UserSecret  string
}

// Store is the process-wide registry. All exported methods are safe for
// concurrent use; the mutex guards only the in-memory state, never a
// backend round-trip, so two in-flight mutations interleave their writes
// in completion order.
type Store struct {
	port     Persistence
	sessions SessionStore
	opts     Options

	mu      sync.RWMutex
	bags    []model.Bag
	layouts []model.Layout

	authenticated bool
	role          string

	stopWatch func()
}

// New creates a store over the given persistence port and session store.
func New(port Persistence, sessions SessionStore, opts Options) *Store {
	return &Store{
		port:     port,
		sessions: sessions,
		opts:     opts,
	}
}

// Load performs the initial full fetch, replacing in-memory state, and in
// remote mode opens the change-notification subscription.
func (s *Store) Load(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	if !s.opts.Remote {
		return nil
	}

	stop, err := s.port.Watch(ctx, func() {
		// Any notification means "something changed somewhere": reload
		// everything rather than merging deltas.
		if err := s.Refresh(context.Background()); err != nil {
			slog.Error("refetching after change notification", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("opening change subscription: %w", err)
	}

	s.mu.Lock()
	s.stopWatch = stop
	s.mu.Unlock()
	return nil
}

// Refresh refetches all bags and layouts and replaces the in-memory
// collections wholesale.
func (s *Store) Refresh(ctx context.Context) error {
	bags, err := s.port.FetchBags(ctx)
	if err != nil {
		return fmt.Errorf("fetching bags: %w", err)
	}
	layouts, err := s.port.FetchLayouts(ctx)
	if err != nil {
		return fmt.Errorf("fetching layouts: %w", err)
	}

	s.mu.Lock()
	s.bags = bags
	s.layouts = layouts
	s.mu.Unlock()

	slog.Info("state refreshed", "bags", len(bags), "layouts", len(layouts))
	return nil
}

// Close stops the change subscription and releases the persistence port.
func (s *Store) Close() error {
	s.mu.Lock()
	stop := s.stopWatch
	s.stopWatch = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	return s.port.Close()
}

// bagIndexLocked returns the position of a bag, or -1. Callers hold mu.
func (s *Store) bagIndexLocked(id string) int {
	for i := range s.bags {
		if s.bags[i].ID == id {
			return i
		}
	}
	return -1
}

// itemIndexLocked returns the positions of a bag and one of its items,
// or (-1, -1). Callers hold mu.
func (s *Store) itemIndexLocked(bagID, itemID string) (int, int) {
	b := s.bagIndexLocked(bagID)
	if b < 0 {
		return -1, -1
	}
	for j := range s.bags[b].Items {
		if s.bags[b].Items[j].ID == itemID {
			return b, j
		}
	}
	return b, -1
}
