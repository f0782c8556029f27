package api

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jambonrider/jambon/internal/model"
	"github.com/jambonrider/jambon/internal/store"
)

// ItemsHandler handles item CRUD endpoints. Creation and update accept
// multipart forms so a photo file can ride along with the fields.
type ItemsHandler struct {
	Store *store.Store
}

// parsePhotoForm limits and parses the multipart body, returning the
// photo file (nil when none was uploaded) and whether the form itself
// was acceptable.
func parsePhotoForm(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid photo upload")
		return nil, false
	}

	// Validate MIME type.
	mime := header.Header.Get("Content-Type")
	if mime != "image/jpeg" && mime != "image/png" && mime != "image/webp" {
		file.Close()
		jsonError(w, http.StatusBadRequest, "photo must be JPEG, PNG, or WebP")
		return nil, false
	}
	return file, true
}

// parseTags accepts either a JSON array or a comma-separated list, since
// multipart form values are plain strings.
func parseTags(value string) []string {
	if value == "" {
		return nil
	}
	if strings.HasPrefix(value, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(value), &tags); err == nil {
			return tags
		}
	}
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Create handles POST /api/bags/{id}/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	bagID := r.PathValue("id")

	file, ok := parsePhotoForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	name := r.FormValue("name")
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	quantity := 0
	if v := r.FormValue("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid quantity")
			return
		}
		quantity = n
	}

	fields := store.ItemFields{
		Name:        name,
		Quantity:    quantity,
		Description: r.FormValue("description"),
		Tags:        parseTags(r.FormValue("tags")),
	}

	var photo io.Reader
	if file != nil {
		photo = file
	}

	item, err := h.Store.AddItem(r.Context(), bagID, fields, photo)
	if err != nil {
		if h.Store.BagByID(bagID) == nil {
			jsonError(w, http.StatusNotFound, "bag not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/bags/{id}/items/{itemId}. Form fields that are
// absent leave the item untouched; uploading a photo replaces the old
// one, and photo="" with no file clears it.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	bagID := r.PathValue("id")
	itemID := r.PathValue("itemId")

	file, ok := parsePhotoForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	var upd model.ItemUpdate
	if vs, set := r.MultipartForm.Value["name"]; set && len(vs) > 0 {
		if vs[0] == "" {
			jsonError(w, http.StatusBadRequest, "name required")
			return
		}
		upd.Name = &vs[0]
	}
	if vs, set := r.MultipartForm.Value["quantity"]; set && len(vs) > 0 {
		n, err := strconv.Atoi(vs[0])
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "invalid quantity")
			return
		}
		upd.Quantity = &n
	}
	if vs, set := r.MultipartForm.Value["description"]; set && len(vs) > 0 {
		upd.Description = &vs[0]
	}
	if vs, set := r.MultipartForm.Value["tags"]; set && len(vs) > 0 {
		tags := parseTags(vs[0])
		if tags == nil {
			tags = []string{}
		}
		upd.Tags = &tags
	}
	if vs, set := r.MultipartForm.Value["photo"]; set && len(vs) > 0 && vs[0] == "" && file == nil {
		empty := ""
		upd.Photo = &empty
	}

	var photo io.Reader
	if file != nil {
		photo = file
	}

	if err := h.Store.UpdateItem(r.Context(), bagID, itemID, upd, photo); err != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*h.Store.BagByID(bagID)))
}

// Delete handles DELETE /api/bags/{id}/items/{itemId}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bagID := r.PathValue("id")
	itemID := r.PathValue("itemId")

	if err := h.Store.DeleteItem(r.Context(), bagID, itemID); err != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Toggle handles POST /api/bags/{id}/items/{itemId}/toggle, flipping the
// item's checked flag.
func (h *ItemsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	bagID := r.PathValue("id")
	itemID := r.PathValue("itemId")

	if err := h.Store.ToggleItemChecked(r.Context(), bagID, itemID); err != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*h.Store.BagByID(bagID)))
}
