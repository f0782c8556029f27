// Package config reads the application configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs: the listen address, the local
// database path, the remote backend credentials (absent means local-only
// mode) and the two login secrets.
type Config struct {
	Addr   string
	DBPath string

	// Remote backend. Leave ProjectID or StorageBucket empty to run in
	// local mode.
	FirebaseProjectID string
	CredentialsFile   string
	CredentialsJSON   string // base64-encoded service account JSON
	StorageBucket     string

	// Login secrets. May be plaintext or bcrypt hashes.
	AdminPassword string
	UserPassword  string
}

// Load reads configuration from the environment. If envFile is non-empty
// it must exist; otherwise a .env in the working directory is loaded when
// present and silently skipped when not.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Addr:              getenv("JAMBON_ADDR", ":8080"),
		DBPath:            getenv("JAMBON_DB", "jambon.sqlite3"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		CredentialsJSON:   os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"),
		StorageBucket:     os.Getenv("FIREBASE_STORAGE_BUCKET"),
		AdminPassword:     os.Getenv("JAMBON_ADMIN_PASSWORD"),
		UserPassword:      os.Getenv("JAMBON_USER_PASSWORD"),
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("JAMBON_ADMIN_PASSWORD must be set")
	}

	return cfg, nil
}

// RemoteConfigured reports whether the remote backend credentials are
// present. Decided once at startup; the persistence mode never changes at
// runtime.
func (c *Config) RemoteConfigured() bool {
	return c.FirebaseProjectID != "" && c.StorageBucket != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
