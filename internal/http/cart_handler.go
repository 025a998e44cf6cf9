package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
)

const (
	msgCartLoginToAdd    = "You need to be logged in to add products to cart."
	msgCartLoginToRemove = "You need to be logged in to remove products from the cart."
	msgCartLoginToView   = "You need to be logged in to view your cart."
	msgCartRemoved       = "Product removed from cart successfully."
	msgCartNotFound      = "Product not found in the cart."
)

func (h *Handler) ShoppingCart(w http.ResponseWriter, r *http.Request) {
	s, err := h.carts.ListCart(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		if isUnauthenticated(err) {
			h.flashRedirect(w, r, "/login", msgCartLoginToView, "")
			return
		}
		h.serverError(w, r, err, "list cart")
		return
	}
	h.render(w, r, http.StatusOK, "shopping_cart", s)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "productId")
	if !ok {
		h.notFound(w, r)
		return
	}

	res, err := h.carts.AddToCart(r.Context(), auth.FromContext(r.Context()), productID)
	switch {
	case isUnauthenticated(err):
		h.flashRedirect(w, r, "/login", msgCartLoginToAdd, "")
		return
	case errors.Is(err, catalog.ErrNotFound):
		h.notFound(w, r)
		return
	case err != nil:
		h.serverError(w, r, err, "add to cart")
		return
	}

	h.metrics.CartOperation(res.Outcome.String())
	h.publish(r, events.CartItemAdded(GetCorrelationID(r.Context()), events.CartItemPayload{
		UserID:    res.Item.UserID,
		ProductID: res.Item.ProductID,
		Quantity:  res.Item.Quantity,
		Price:     res.Item.Price,
		Timestamp: nowUTC(),
	}))

	if res.Outcome == cart.Incremented {
		h.redirect(w, r, "/shopping-cart/")
		return
	}
	h.redirect(w, r, "/")
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "productId")
	if !ok {
		h.notFound(w, r)
		return
	}

	res, err := h.carts.RemoveFromCart(r.Context(), auth.FromContext(r.Context()), productID)
	switch {
	case isUnauthenticated(err):
		h.flashRedirect(w, r, "/login", msgCartLoginToRemove, "")
		return
	case err != nil:
		h.serverError(w, r, err, "remove from cart")
		return
	}

	h.metrics.CartOperation(res.Outcome.String())
	if res.Outcome == cart.NotFound {
		h.flashRedirect(w, r, "/shopping-cart/", msgCartNotFound, "")
		return
	}
	h.publish(r, events.CartItemRemoved(GetCorrelationID(r.Context()), events.CartItemPayload{
		UserID:    res.Item.UserID,
		ProductID: productID,
		Timestamp: nowUTC(),
	}))
	h.flashRedirect(w, r, "/shopping-cart/", msgCartRemoved, "")
}
