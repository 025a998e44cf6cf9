package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/wishlist"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Identity, error)
	Register(ctx context.Context, email, password string) (auth.Identity, error)
	Resolve(ctx context.Context, userID int64) (auth.Identity, error)
}

type Catalog interface {
	Browse(ctx context.Context) (catalog.Listing, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
	Create(ctx context.Context, in catalog.NewProduct) (catalog.Product, error)
}

type Carts interface {
	AddToCart(ctx context.Context, caller auth.Identity, productID int64) (cart.Result, error)
	RemoveFromCart(ctx context.Context, caller auth.Identity, productID int64) (cart.Result, error)
	ListCart(ctx context.Context, caller auth.Identity) (cart.Summary, error)
}

type Wishlists interface {
	AddToWishlist(ctx context.Context, caller auth.Identity, productID int64) (wishlist.Result, error)
	RemoveFromWishlist(ctx context.Context, caller auth.Identity, itemID int64) (wishlist.Result, error)
	ListWishlist(ctx context.Context, caller auth.Identity) ([]wishlist.Item, error)
}

// Deps are the collaborators of Handler. Logger, Events and Metrics fall
// back to no-op values; a nil Limiter disables login throttling.
type Deps struct {
	Logger    logrus.FieldLogger
	Sessions  *session.Manager
	Auth      Authenticator
	Catalog   Catalog
	Carts     Carts
	Wishlists Wishlists
	Events    events.Publisher
	Metrics   *metrics.Metrics
	Limiter   *RateLimiter
}

type Handler struct {
	logger    logrus.FieldLogger
	sessions  *session.Manager
	auth      Authenticator
	catalog   Catalog
	carts     Carts
	wishlists Wishlists
	events    events.Publisher
	metrics   *metrics.Metrics
	limiter   *RateLimiter
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		logger:    d.Logger,
		sessions:  d.Sessions,
		auth:      d.Auth,
		catalog:   d.Catalog,
		carts:     d.Carts,
		wishlists: d.Wishlists,
		events:    d.Events,
		metrics:   d.Metrics,
		limiter:   d.Limiter,
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}
	if h.events == nil {
		h.events = events.NoopPublisher{}
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	return h
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// view is the body of every rendered page.
type view struct {
	Page    string          `json:"page"`
	Flashes []session.Flash `json:"flashes"`
	User    *viewUser       `json:"user,omitempty"`
	Data    any             `json:"data,omitempty"`
}

type viewUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// render consumes the pending flashes and writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	sess := session.FromContext(r.Context())
	v := view{Page: page, Flashes: sess.PopFlashes(), Data: data}
	if id := auth.FromContext(r.Context()); id.Authenticated() {
		v.User = &viewUser{ID: id.UserID, Email: id.Email, Admin: id.IsAdmin()}
	}
	h.saveSession(w, r, sess)
	writeJSON(w, status, v)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	h.saveSession(w, r, session.FromContext(r.Context()))
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *Handler) flashRedirect(w http.ResponseWriter, r *http.Request, url, message, category string) {
	session.FromContext(r.Context()).AddFlash(message, category)
	h.redirect(w, r, url)
}

func (h *Handler) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.sessions.Save(w, sess); err != nil {
		h.log(r).WithError(err).Error("save session")
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found", nil)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.log(r).WithError(err).Error(msg)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) log(r *http.Request) logrus.FieldLogger {
	fields := logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
	}
	if cid := GetCorrelationID(r.Context()); cid != "" {
		fields["correlation_id"] = cid
	}
	if id := auth.FromContext(r.Context()); id.Authenticated() {
		fields["user_id"] = id.UserID
	}
	return h.logger.WithFields(fields)
}

// publish never fails the request; the broker is best effort.
func (h *Handler) publish(r *http.Request, ev events.Event) {
	if _, ok := h.events.(events.NoopPublisher); ok {
		return
	}
	err := h.events.Publish(r.Context(), ev)
	h.metrics.EventPublished(ev.Name, err == nil)
	if err != nil {
		h.log(r).WithError(err).WithField("event", ev.Name).Warn("publish event failed")
	}
}

// identify resolves the session user into the request identity.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		id, err := h.auth.Resolve(r.Context(), sess.UserID)
		if err != nil {
			h.serverError(w, r, err, "resolve session user")
			return
		}
		if !id.Authenticated() {
			sess.Logout()
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireAdmin(auth.FromContext(r.Context())); err != nil {
			h.log(r).WithError(err).Warn("admin route refused")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, auth.ErrUnauthenticated)
}

func nowUTC() time.Time { return time.Now().UTC() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
