package local

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// JWTSecret retrieves the token signing secret from the local KV store,
// generating and persisting one on first use. Uses INSERT OR IGNORE plus
// a re-SELECT so concurrent startups agree on a single secret.
func JWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO kv (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	// Read back either our insert or the preexisting value.
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt secret: %w", err)
	}

	return secret, nil
}
