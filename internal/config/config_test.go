package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JAMBON_ADMIN_PASSWORD", "topsecret")
	t.Setenv("JAMBON_ADDR", "")
	t.Setenv("JAMBON_DB", "")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != "jambon.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.RemoteConfigured() {
		t.Error("expected local mode without Firebase credentials")
	}
}

func TestLoadRequiresAdminPassword(t *testing.T) {
	t.Setenv("JAMBON_ADMIN_PASSWORD", "")
	if _, err := Load(""); err == nil {
		t.Error("expected error without admin password")
	}
}

func TestRemoteConfigured(t *testing.T) {
	t.Setenv("JAMBON_ADMIN_PASSWORD", "topsecret")
	t.Setenv("FIREBASE_PROJECT_ID", "jambon-prod")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "jambon-prod.appspot.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RemoteConfigured() {
		t.Error("expected remote mode with project id and bucket set")
	}
}
