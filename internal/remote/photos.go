package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
)

// photoPrefix is the object-name prefix for uploaded photos.
const photoPrefix = "items/"

// bucketHandle wraps the Cloud Storage bucket with the name needed to
// build and parse public URLs.
type bucketHandle struct {
	bucket *storage.BucketHandle
	name   string
}

func newBucketHandle(ctx context.Context, app *firebase.App, name string) (*bucketHandle, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to storage: %w", err)
	}
	bucket, err := client.Bucket(name)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %s: %w", name, err)
	}
	return &bucketHandle{bucket: bucket, name: name}, nil
}

// UploadPhoto writes compressed photo bytes under a generated
// collision-resistant object name and returns the publicly resolvable
// URL. Upload failures propagate to the caller.
func (g *Gateway) UploadPhoto(ctx context.Context, data []byte, mime string) (string, error) {
	name := photoPrefix + uuid.NewString() + ".jpg"
	w := g.bucket.bucket.Object(name).NewWriter(ctx)
	w.ContentType = mime
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket.name, name), nil
}

// DeletePhoto derives the object name from a photo URL and removes the
// object. Deletion is best-effort: failures are logged and swallowed so
// they never block the owning entity mutation, and URLs outside our
// bucket are ignored.
func (g *Gateway) DeletePhoto(ctx context.Context, uri string) error {
	name, ok := g.objectName(uri)
	if !ok {
		return nil
	}
	err := g.bucket.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		slog.Warn("deleting photo object", "object", name, "error", err)
	}
	return nil
}

// objectName extracts the object name from a public URL produced by
// UploadPhoto.
func (g *Gateway) objectName(uri string) (string, bool) {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", g.bucket.name)
	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(uri, prefix)
	if name == "" {
		return "", false
	}
	return name, true
}
