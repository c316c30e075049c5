package handler

import (
	"net/http"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

// Deps holds the services the HTTP layer is built on.
type Deps struct {
	Auth         *service.AuthService
	Catalog      *service.CatalogService
	Cart         *service.CartService
	Images       domain.ImageStore
	LoginLimiter *service.TokenBucket
	Currency     string
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authH := NewAuthHandler(d.Auth, d.LoginLimiter, d.CookieSecure)
	productH := NewProductHandler(d.Catalog, d.Currency)
	cartH := NewCartHandler(d.Cart)
	imageH := NewImageHandler(d.Images)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(d.Auth, h) }
	page := func(h http.HandlerFunc) http.Handler { return RequirePage(d.Auth, h) }
	api := func(h http.HandlerFunc) http.Handler { return RequireAuth(d.Auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Auth
	mux.HandleFunc("GET /signup", authH.HandleSignupPage)
	mux.HandleFunc("POST /signup", authH.HandleSignup)
	mux.HandleFunc("GET /login", authH.HandleLoginPage)
	mux.HandleFunc("POST /login", authH.HandleLogin)
	mux.HandleFunc("GET /logout", authH.HandleLogout)
	mux.Handle("GET /auth/status", optional(authH.HandleStatus))

	// Catalog
	mux.HandleFunc("GET /{$}", productH.HandleRoot)
	mux.Handle("GET /products", optional(productH.HandleList))
	mux.Handle("GET /create", page(productH.HandleCreatePage))
	mux.Handle("POST /products", page(productH.HandleCreate))
	mux.HandleFunc("GET /images/{name}", imageH.HandleServe)

	// Cart pages
	mux.Handle("GET /cart", page(cartH.HandleView))
	mux.Handle("GET /cart/badge", optional(cartH.HandleBadge))

	// Cart mutations
	mux.Handle("GET /add-to-cart", api(cartH.HandleAdd))
	mux.Handle("GET /update-cart", api(cartH.HandleUpdate))
	mux.Handle("GET /remove-from-cart", api(cartH.HandleRemove))
	mux.Handle("GET /clear-cart", api(cartH.HandleClear))
}
