package api

import (
	"net/http"

	"github.com/jambonrider/jambon/internal/model"
	"github.com/jambonrider/jambon/internal/qr"
	"github.com/jambonrider/jambon/internal/store"
)

// BagsHandler handles bag CRUD and loading endpoints.
type BagsHandler struct {
	Store *store.Store
}

type createBagRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type updateBagRequest struct {
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
}

type loadedRequest struct {
	Loaded bool `json:"loaded"`
}

// bagResponse decorates a bag with its derived status.
type bagResponse struct {
	model.Bag
	Status string `json:"status"`
}

func toBagResponse(b model.Bag) bagResponse {
	return bagResponse{Bag: b, Status: b.Status()}
}

func toBagResponses(bags []model.Bag) []bagResponse {
	out := make([]bagResponse, len(bags))
	for i, b := range bags {
		out[i] = toBagResponse(b)
	}
	return out
}

// List handles GET /api/bags. With ?filtered=1 the active layout (if any)
// restricts and orders the result.
func (h *BagsHandler) List(w http.ResponseWriter, r *http.Request) {
	var bags []model.Bag
	if r.URL.Query().Get("filtered") == "1" {
		bags = h.Store.FilteredBags()
	} else {
		bags = h.Store.Bags()
	}
	jsonResponse(w, http.StatusOK, toBagResponses(bags))
}

// Create handles POST /api/bags.
func (h *BagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBagRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	bag, err := h.Store.AddBag(r.Context(), req.Name, req.Photo)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create bag")
		return
	}
	jsonResponse(w, http.StatusCreated, toBagResponse(*bag))
}

// Get handles GET /api/bags/{id}.
func (h *BagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	bag := h.Store.BagByID(r.PathValue("id"))
	if bag == nil {
		jsonError(w, http.StatusNotFound, "bag not found")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*bag))
}

// Update handles PUT /api/bags/{id}.
func (h *BagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateBagRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := model.BagUpdate{Name: req.Name, Photo: req.Photo}
	if err := h.Store.UpdateBag(r.Context(), id, upd); err != nil {
		if h.Store.BagByID(id) == nil {
			jsonError(w, http.StatusNotFound, "bag not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update bag")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*h.Store.BagByID(id)))
}

// Delete handles DELETE /api/bags/{id}.
func (h *BagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.Store.BagByID(id) == nil {
		jsonError(w, http.StatusNotFound, "bag not found")
		return
	}
	if err := h.Store.DeleteBag(r.Context(), id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete bag")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "bag deleted"})
}

// SetLoaded handles PUT /api/bags/{id}/loaded. Unloading un-checks every
// item of the bag.
func (h *BagsHandler) SetLoaded(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req loadedRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.Store.BagByID(id) == nil {
		jsonError(w, http.StatusNotFound, "bag not found")
		return
	}
	if err := h.Store.MarkBagLoaded(r.Context(), id, req.Loaded); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update loaded state")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*h.Store.BagByID(id)))
}

// QRPayload handles GET /api/bags/{id}/qr, returning the payload clients
// embed in the printed QR code.
func (h *BagsHandler) QRPayload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.Store.BagByID(id) == nil {
		jsonError(w, http.StatusNotFound, "bag not found")
		return
	}
	jsonResponse(w, http.StatusOK, qr.New(id))
}

// ScanQR handles POST /api/qr/scan, resolving a scanned payload to a bag.
func (h *BagsHandler) ScanQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := qr.Parse([]byte(req.Payload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "unrecognized qr code")
		return
	}

	bag := h.Store.BagByID(payload.BagID)
	if bag == nil {
		jsonError(w, http.StatusNotFound, "bag not found")
		return
	}
	jsonResponse(w, http.StatusOK, toBagResponse(*bag))
}
