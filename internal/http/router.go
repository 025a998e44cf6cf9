package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	productIDParam  = "/{productId:[0-9]+}"
	wishlistIDParam = "/{wishlistId:[0-9]+}"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(PeerAddr)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	// Instrument wraps Recoverer so recovered panics are counted as 500s.
	r.Use(h.metrics.Instrument)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)
		r.Use(h.identify)

		r.Get("/", h.Home)
		r.Get("/products", h.Products)
		r.Get("/product_page"+productIDParam, h.ProductPage)
		r.Get("/about", h.About)
		r.Get("/contact", h.Contact)
		r.Post("/contact", h.Contact)

		r.Get("/login", h.LoginForm)
		r.With(h.rateLimit).Post("/login", h.Login)
		r.Get("/register", h.RegisterForm)
		r.With(h.rateLimit).Post("/register", h.Register)
		r.Get("/logout", h.Logout)

		r.With(h.requireAdmin).Get("/add", h.AddProductForm)
		r.With(h.requireAdmin).Post("/add", h.AddProduct)

		r.Get("/shopping-cart", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/shopping-cart/", http.StatusPermanentRedirect)
		})
		r.Get("/shopping-cart/", h.ShoppingCart)
		r.Post("/shopping-cart/", h.ShoppingCart)
		r.Get("/add-to-cart"+productIDParam, h.AddToCart)
		r.Post("/add-to-cart"+productIDParam, h.AddToCart)
		r.Post("/remove-from-cart"+productIDParam, h.RemoveFromCart)

		r.Get("/wishlist", h.Wishlist)
		for _, prefix := range []string{"/whishlist/add", "/wishlist/add"} {
			r.Get(prefix+productIDParam, h.AddToWishlist)
			r.Post(prefix+productIDParam, h.AddToWishlist)
		}
		r.Get("/wishlist/remove"+wishlistIDParam, h.RemoveFromWishlist)
		r.Post("/wishlist/remove"+wishlistIDParam, h.RemoveFromWishlist)
	})

	return r
}
