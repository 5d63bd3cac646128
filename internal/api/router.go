package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/store"
)

// DefaultMaxUploadBytes caps uploads when Options leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// Options tunes the router.
type Options struct {
	MaxUploadBytes int64
	// Now is the clock used for exit timestamps and export names.
	Now func() time.Time
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	items := store.NewItems(db)
	exits := store.NewExits(db)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{Items: items, Exits: exits, MaxUploadBytes: opts.MaxUploadBytes}
	exitsHandler := &ExitsHandler{Exits: exits, Now: opts.Now}
	importHandler := &ImportHandler{Items: items, MaxUploadBytes: opts.MaxUploadBytes, Now: opts.Now}
	dashboardHandler := &DashboardHandler{Items: items, Exits: exits, Now: opts.Now}

	mux := http.NewServeMux()

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireTechnician := RequireRole(model.RoleTechnician)

	// authed admits every authenticated role.
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	technician := func(h http.HandlerFunc) http.Handler { return authMW(requireTechnician(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Items: read (all roles), stock and category (technician+), catalogue (admin).
	mux.Handle("GET /api/items", authed(itemsHandler.List))
	mux.Handle("POST /api/items", admin(itemsHandler.Create))
	mux.Handle("DELETE /api/items", admin(itemsHandler.Clear))
	mux.Handle("GET /api/items/{id}", authed(itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", admin(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", admin(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/stock", technician(itemsHandler.SetStock))
	mux.Handle("PUT /api/items/{id}/category", technician(itemsHandler.SetCategory))
	mux.Handle("PUT /api/items/{id}/photo", admin(itemsHandler.UploadPhoto))
	mux.Handle("GET /api/items/{id}/exits", authed(itemsHandler.History))

	// Spreadsheets.
	mux.Handle("POST /api/import/preview", admin(importHandler.Preview))
	mux.Handle("POST /api/import", admin(importHandler.Import))
	mux.Handle("GET /api/import/template", authed(importHandler.Template))
	mux.Handle("GET /api/export/zero-stock", authed(importHandler.ZeroStock))

	// Exit ledger.
	mux.Handle("GET /api/exits", authed(exitsHandler.List))
	mux.Handle("POST /api/exits", technician(exitsHandler.Create))
	mux.Handle("GET /api/exits/export", authed(exitsHandler.Export))
	mux.Handle("DELETE /api/exits/{id}", admin(exitsHandler.Delete))

	// Aggregates.
	mux.Handle("GET /api/dashboard", authed(dashboardHandler.Dashboard))
	mux.Handle("GET /api/categories", authed(dashboardHandler.Categories))

	return mux
}
