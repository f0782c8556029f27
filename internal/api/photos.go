package api

import (
	"context"
	"net/http"
)

// PhotoSource serves stored photo blobs by name. Only the local
// persistence adapter provides one; in remote mode photo URLs point at
// the cloud bucket and this handler is never registered.
type PhotoSource interface {
	Photo(ctx context.Context, name string) ([]byte, string, error)
}

// PhotosHandler serves locally stored photos.
type PhotosHandler struct {
	Source PhotoSource
}

// Get handles GET /api/photos/{name}.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Source.Photo(r.Context(), r.PathValue("name"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
