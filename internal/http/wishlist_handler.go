package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/wishlist"
)

const (
	msgWishlistLoginToAdd    = "Please log in to add products to your wishlist."
	msgWishlistLoginToView   = "Please log in to view your wishlist."
	msgWishlistLoginToRemove = "Please log in to remove products from your wishlist."
	msgWishlistExists        = "Product already exists in wishlist."
	msgWishlistNoProduct     = "Product not found."
	msgWishlistRemoved       = "Product removed from wishlist successfully."
	msgWishlistNotFound      = "Product not found in wishlist."
)

func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.ListWishlist(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		if isUnauthenticated(err) {
			h.flashRedirect(w, r, "/login", msgWishlistLoginToView, "error")
			return
		}
		h.serverError(w, r, err, "list wishlist")
		return
	}
	h.render(w, r, http.StatusOK, "wishlist", map[string]any{"items": items})
}

// AddToWishlist always lands on /wishlist; the flash tells the story.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "productId")
	if !ok {
		h.notFound(w, r)
		return
	}

	res, err := h.wishlists.AddToWishlist(r.Context(), auth.FromContext(r.Context()), productID)
	switch {
	case isUnauthenticated(err):
		h.flashRedirect(w, r, "/wishlist", msgWishlistLoginToAdd, "error")
		return
	case errors.Is(err, catalog.ErrNotFound):
		h.flashRedirect(w, r, "/wishlist", msgWishlistNoProduct, "error")
		return
	case err != nil:
		h.serverError(w, r, err, "add to wishlist")
		return
	}

	h.metrics.WishlistOperation(res.Outcome.String())
	if res.Outcome == wishlist.AlreadyExists {
		h.flashRedirect(w, r, "/wishlist", msgWishlistExists, "info")
		return
	}
	h.publish(r, events.WishlistItemAdded(GetCorrelationID(r.Context()), events.WishlistItemPayload{
		UserID:    res.Item.UserID,
		ItemID:    res.Item.ID,
		ProductID: res.Item.ProductID,
		Timestamp: nowUTC(),
	}))
	h.redirect(w, r, "/wishlist")
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(r, "wishlistId")
	if !ok {
		h.notFound(w, r)
		return
	}

	res, err := h.wishlists.RemoveFromWishlist(r.Context(), auth.FromContext(r.Context()), itemID)
	switch {
	case isUnauthenticated(err):
		h.flashRedirect(w, r, "/wishlist", msgWishlistLoginToRemove, "error")
		return
	case err != nil:
		h.serverError(w, r, err, "remove from wishlist")
		return
	}

	h.metrics.WishlistOperation(res.Outcome.String())
	if res.Outcome == wishlist.NotFound {
		h.flashRedirect(w, r, "/wishlist", msgWishlistNotFound, "error")
		return
	}
	h.publish(r, events.WishlistItemRemoved(GetCorrelationID(r.Context()), events.WishlistItemPayload{
		UserID:    res.Item.UserID,
		ItemID:    itemID,
		Timestamp: nowUTC(),
	}))
	h.flashRedirect(w, r, "/wishlist", msgWishlistRemoved, "success")
}
