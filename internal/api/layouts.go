package api

import (
	"net/http"

	"github.com/jambonrider/jambon/internal/model"
	"github.com/jambonrider/jambon/internal/store"
)

// LayoutsHandler handles layout CRUD and activation endpoints.
type LayoutsHandler struct {
	Store *store.Store
}

type createLayoutRequest struct {
	Name   string   `json:"name"`
	BagIDs []string `json:"bagIds"`
}

type updateLayoutRequest struct {
	Name   *string   `json:"name"`
	BagIDs *[]string `json:"bagIds"`
}

type activateLayoutRequest struct {
	// ID of the layout to activate; null deactivates all layouts.
	ID *string `json:"id"`
}

// List handles GET /api/layouts.
func (h *LayoutsHandler) List(w http.ResponseWriter, r *http.Request) {
	layouts := h.Store.Layouts()
	if layouts == nil {
		layouts = []model.Layout{}
	}
	jsonResponse(w, http.StatusOK, layouts)
}

// Create handles POST /api/layouts. New layouts start inactive.
func (h *LayoutsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	layout, err := h.Store.AddLayout(r.Context(), req.Name, req.BagIDs)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create layout")
		return
	}
	jsonResponse(w, http.StatusCreated, layout)
}

// Update handles PUT /api/layouts/{id}.
func (h *LayoutsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	upd := model.LayoutUpdate{Name: req.Name, BagIDs: req.BagIDs}
	if err := h.Store.UpdateLayout(r.Context(), id, upd); err != nil {
		if h.Store.LayoutByID(id) == nil {
			jsonError(w, http.StatusNotFound, "layout not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update layout")
		return
	}
	jsonResponse(w, http.StatusOK, h.Store.LayoutByID(id))
}

// Delete handles DELETE /api/layouts/{id}.
func (h *LayoutsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.Store.LayoutByID(id) == nil {
		jsonError(w, http.StatusNotFound, "layout not found")
		return
	}
	if err := h.Store.DeleteLayout(r.Context(), id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete layout")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "layout deleted"})
}

// SetActive handles PUT /api/layouts/active. Activating one layout
// deactivates every other; a null id deactivates all of them.
func (h *LayoutsHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req activateLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if id != "" && h.Store.LayoutByID(id) == nil {
		jsonError(w, http.StatusNotFound, "layout not found")
		return
	}

	if err := h.Store.SetActiveLayout(r.Context(), id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to set active layout")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"active": req.ID})
}
