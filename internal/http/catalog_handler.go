package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
)

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "index")
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "products")
}

func (h *Handler) listing(w http.ResponseWriter, r *http.Request, page string) {
	l, err := h.catalog.Browse(r.Context())
	if err != nil {
		h.serverError(w, r, err, "browse catalog")
		return
	}
	h.render(w, r, http.StatusOK, page, l)
}

func (h *Handler) ProductPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productId")
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err, "get product")
		return
	}
	h.render(w, r, http.StatusOK, "product_page", p)
}

func (h *Handler) AddProductForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "add_product", nil)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	in := catalog.NewProduct{
		Category:    r.FormValue("category"),
		SubCategory: r.FormValue("sub_cat"),
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		ImageURL:    r.FormValue("img_url"),
	}
	p, err := h.catalog.Create(r.Context(), in)
	switch {
	case errors.Is(err, catalog.ErrMissingField):
		h.flashRedirect(w, r, "/add", "All product fields are required.", "error")
		return
	case errors.Is(err, catalog.ErrInvalidPrice):
		h.flashRedirect(w, r, "/add", "Price must be a non-negative amount, e.g. $19.99.", "error")
		return
	case err != nil:
		h.serverError(w, r, err, "create product")
		return
	}
	h.log(r).WithField("product_id", p.ID).Info("product created")
	h.redirect(w, r, "/")
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", nil)
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", nil)
}
