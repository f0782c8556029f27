package store

import (
	"context"
	"testing"

	"github.com/jambonrider/jambon/internal/local"
	"github.com/jambonrider/jambon/internal/model"
)

func TestLoginWrongPassword(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Login(ctx, "wrong-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if ok {
		t.Error("expected login failure")
	}
	if s.Authenticated() {
		t.Error("failed login must leave authenticated state unchanged")
	}
	if s.Role() != "" {
		t.Errorf("expected no role, got %q", s.Role())
	}
}

func TestLoginAdminAndUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Login(ctx, testAdminSecret)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !ok || !s.Authenticated() || s.Role() != model.RoleAdmin {
		t.Errorf("expected authenticated admin, got ok=%v role=%q", ok, s.Role())
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	ok, _ = s.Login(ctx, testUserSecret)
	if !ok || s.Role() != model.RoleUser {
		t.Errorf("expected user role, got ok=%v role=%q", ok, s.Role())
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Login(ctx, testAdminSecret)
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Authenticated() || s.Role() != "" {
		t.Error("expected cleared session after logout")
	}
}

// TestCheckAuthRehydrates simulates a restart: a fresh store over the
// same database recovers the session from durable storage.
func TestCheckAuthRehydrates(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	s.Login(ctx, testAdminSecret)

	restarted := New(local.New(database), local.NewSessions(database), Options{
		AdminSecret: testAdminSecret,
		UserSecret:  testUserSecret,
	})
	if restarted.Authenticated() {
		t.Fatal("fresh store must start unauthenticated")
	}
	if err := restarted.CheckAuth(ctx); err != nil {
		t.Fatalf("CheckAuth: %v", err)
	}
	if !restarted.Authenticated() || restarted.Role() != model.RoleAdmin {
		t.Errorf("expected rehydrated admin session, got role %q", restarted.Role())
	}

	// After logout, a further restart sees no session.
	restarted.Logout(ctx)
	again := New(local.New(database), local.NewSessions(database), Options{})
	again.CheckAuth(ctx)
	if again.Authenticated() {
		t.Error("expected no session after logout and restart")
	}
}
