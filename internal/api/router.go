package api

import (
	"net/http"

	"github.com/jambonrider/jambon/internal/store"
)

// NewRouter creates the API router with all endpoints registered. photos
// may be nil; the photo route is only served in local mode, where item
// photo URLs point back at this server.
func NewRouter(st *store.Store, photos PhotoSource, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Store: st, JWTSecret: jwtSecret}
	bagsHandler := &BagsHandler{Store: st}
	itemsHandler := &ItemsHandler{Store: st}
	layoutsHandler := &LayoutsHandler{Store: st}

	authMW := AuthMiddleware(jwtSecret)
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return authMW(h)
	}

	// Public: login, and photo blobs (their names are unguessable).
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	if photos != nil {
		photosHandler := &PhotosHandler{Source: photos}
		mux.HandleFunc("GET /api/photos/{name}", photosHandler.Get)
	}

	// Session.
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/auth/session", authed(authHandler.Session))

	// Bags: reads, loading and QR scanning for all roles, structural
	// changes admin only.
	mux.Handle("GET /api/bags", authed(bagsHandler.List))
	mux.Handle("POST /api/bags", requireAdmin(bagsHandler.Create))
	mux.Handle("GET /api/bags/{id}", authed(bagsHandler.Get))
	mux.Handle("PUT /api/bags/{id}", requireAdmin(bagsHandler.Update))
	mux.Handle("DELETE /api/bags/{id}", requireAdmin(bagsHandler.Delete))
	mux.Handle("PUT /api/bags/{id}/loaded", authed(bagsHandler.SetLoaded))
	mux.Handle("GET /api/bags/{id}/qr", authed(bagsHandler.QRPayload))
	mux.Handle("POST /api/qr/scan", authed(bagsHandler.ScanQR))

	// Items: checking off is for all roles, the rest admin only.
	mux.Handle("POST /api/bags/{id}/items", requireAdmin(itemsHandler.Create))
	mux.Handle("PUT /api/bags/{id}/items/{itemId}", requireAdmin(itemsHandler.Update))
	mux.Handle("DELETE /api/bags/{id}/items/{itemId}", requireAdmin(itemsHandler.Delete))
	mux.Handle("POST /api/bags/{id}/items/{itemId}/toggle", authed(itemsHandler.Toggle))

	// Layouts: activation for all roles, editing admin only.
	mux.Handle("GET /api/layouts", authed(layoutsHandler.List))
	mux.Handle("POST /api/layouts", requireAdmin(layoutsHandler.Create))
	mux.Handle("PUT /api/layouts/active", authed(layoutsHandler.SetActive))
	mux.Handle("PUT /api/layouts/{id}", requireAdmin(layoutsHandler.Update))
	mux.Handle("DELETE /api/layouts/{id}", requireAdmin(layoutsHandler.Delete))

	return mux
}
