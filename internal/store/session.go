package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jambonrider/jambon/internal/auth"
	"github.com/jambonrider/jambon/internal/model"
)

// Login compares the password against the configured admin and user
// secrets. On success it records the session (in memory and in durable
// storage, so a restart keeps it) and returns true; the role is fixed for
// the rest of the session.
func (s *Store) Login(ctx context.Context, password string) (bool, error) {
	var role string
	switch {
	case auth.CheckSecret(password, s.opts.AdminSecret):
		role = model.RoleAdmin
	case auth.CheckSecret(password, s.opts.UserSecret):
		role = model.RoleUser
	default:
		slog.Warn("login failed")
		return false, nil
	}

	if err := s.sessions.Save(ctx, role); err != nil {
		return false, fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.role = role
	s.mu.Unlock()

	slog.Info("logged in", "role", role)
	return true, nil
}

// Logout clears the in-memory and durable session and tears down any
// active change subscription.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.authenticated = false
	s.role = ""
	stop := s.stopWatch
	s.stopWatch = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}

	slog.Info("logged out")
	return nil
}

// CheckAuth rehydrates the session from durable storage at startup.
func (s *Store) CheckAuth(ctx context.Context) error {
	role, err := s.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if role == "" {
		return nil
	}

	s.mu.Lock()
	s.authenticated = true
	s.role = role
	s.mu.Unlock()
	return nil
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Role returns the session role, or "" when unauthenticated.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}
