package local

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PhotoPathPrefix is the URL prefix under which locally stored photos are
// served.
const PhotoPathPrefix = "/api/photos/"

// UploadPhoto stores compressed photo bytes under a generated name and
// returns the URI the photo is served from.
func (a *Adapter) UploadPhoto(ctx context.Context, data []byte, mime string) (string, error) {
	name := uuid.NewString() + ".jpg"
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO photos (name, data, mime) VALUES (?, ?, ?)`,
		name, data, mime,
	)
	if err != nil {
		return "", fmt.Errorf("storing photo: %w", err)
	}
	return PhotoPathPrefix + name, nil
}

// DeletePhoto removes the blob behind a photo URI. Best-effort: failures
// are logged and never propagate, and URIs this adapter did not produce
// are ignored.
func (a *Adapter) DeletePhoto(ctx context.Context, uri string) error {
	if !strings.HasPrefix(uri, PhotoPathPrefix) {
		return nil
	}
	name := path.Base(uri)
	if _, err := a.db.ExecContext(ctx, `DELETE FROM photos WHERE name = ?`, name); err != nil {
		slog.Warn("deleting local photo", "name", name, "error", err)
	}
	return nil
}

// Photo returns a stored photo's data and MIME type, or (nil, "", nil)
// if no photo with that name exists.
func (a *Adapter) Photo(ctx context.Context, name string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := a.db.QueryRowContext(ctx,
		`SELECT data, mime FROM photos WHERE name = ?`, name,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading photo: %w", err)
	}
	return data, mime, nil
}
