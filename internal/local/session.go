package local

import (
	"context"
	"database/sql"
	"fmt"
)

// KV keys for the persisted session. These survive process restarts so a
// reload does not force a new login, mirroring the bag collection slot.
const (
	authKey = "auth"
	roleKey = "role"
)

// Sessions persists the authenticated flag and role in the local KV
// store. It is used in both persistence modes.
type Sessions struct {
	db *sql.DB
}

// NewSessions creates a session store over an open database.
func NewSessions(db *sql.DB) *Sessions {
	return &Sessions{db: db}
}

// Save records an authenticated session with the given role.
func (s *Sessions) Save(ctx context.Context, role string) error {
	a := &Adapter{db: s.db}
	if err := a.setKV(ctx, authKey, "true"); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := a.setKV(ctx, roleKey, role); err != nil {
		return fmt.Errorf("saving session role: %w", err)
	}
	return nil
}

// Load returns the persisted session role, or "" when no authenticated
// session is recorded. Malformed records read as no session.
func (s *Sessions) Load(ctx context.Context) (string, error) {
	a := &Adapter{db: s.db}
	auth, err := a.getKV(ctx, authKey)
	if err != nil {
		return "", err
	}
	if auth != "true" {
		return "", nil
	}
	role, err := a.getKV(ctx, roleKey)
	if err != nil {
		return "", err
	}
	return role, nil
}

// Clear removes the persisted session.
func (s *Sessions) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE key IN (?, ?)`, authKey, roleKey,
	)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
