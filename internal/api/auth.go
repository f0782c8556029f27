package api

import (
	"net/http"

	"github.com/jambonrider/jambon/internal/auth"
	"github.com/jambonrider/jambon/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}

	ok, err := h.Store.Login(r.Context(), req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, h.Store.Role())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Role: h.Store.Role()})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Logout(r.Context()); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"authenticated": h.Store.Authenticated(),
		"role":          h.Store.Role(),
	})
}
