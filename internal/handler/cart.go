package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/view"
)

// CartHandler serves the cart page and the cart mutation routes.
type CartHandler struct {
	cart *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

func productIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: product_id must be a positive integer", domain.ErrInvalidInput)
	}
	return id, nil
}

// writeCartError maps cart errors onto JSON responses.
func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "You must be logged in to do that.")
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrProductNotInCart):
		writeError(w, http.StatusNotFound, "Product not in cart")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("cart operation", "error", err, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// HandleAdd puts one unit of a product in the cart. Datastar requests get
// the refreshed cart badge over SSE; everything else gets JSON.
// GET /add-to-cart?product_id=N
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	p := PrincipalFromContext(r.Context())
	qty, err := h.cart.Add(r.Context(), p, id)
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	if isDatastarRequest(r) {
		h.patchBadge(w, r, p)
		return
	}
	writeJSON(w, http.StatusOK, AddToCartDTO{
		Message:   fmt.Sprintf("Product %d added to cart", id),
		ProductID: id,
		Quantity:  qty,
	})
}

// HandleUpdate increases or decreases a line by one.
// GET /update-cart?product_id=N&action=increase|decrease
func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	p := PrincipalFromContext(r.Context())
	switch action := r.URL.Query().Get("action"); action {
	case "increase":
		_, err = h.cart.Increase(r.Context(), p, id)
	case "decrease":
		_, err = h.cart.Decrease(r.Context(), p, id)
	default:
		writeError(w, http.StatusBadRequest, "action must be increase or decrease")
		return
	}
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// HandleRemove deletes a line from the cart.
// GET /remove-from-cart?product_id=N
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	if err := h.cart.Remove(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeCartError(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// HandleClear empties the cart and thanks the shopper.
// GET /clear-cart
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), PrincipalFromContext(r.Context())); err != nil {
		writeCartError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, view.ThankYouPage(navFor(r)))
}

// HandleView renders the cart page.
// GET /cart
func (h *CartHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	cv, err := h.cart.View(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		serverErrorPage(w, r, "view cart", err)
		return
	}
	renderPage(w, r, http.StatusOK, view.CartPage(navFor(r), cv))
}

// HandleBadge streams the navbar cart counter.
// GET /cart/badge
func (h *CartHandler) HandleBadge(w http.ResponseWriter, r *http.Request) {
	h.patchBadge(w, r, PrincipalFromContext(r.Context()))
}

func (h *CartHandler) patchBadge(w http.ResponseWriter, r *http.Request, p domain.Principal) {
	count, err := h.cart.ItemCount(r.Context(), p)
	if err != nil {
		slog.Error("count cart items", "error", err, "request_id", RequestIDFromContext(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.CartBadge(count)); err != nil {
		slog.Error("patch cart badge", "error", err)
	}
}
