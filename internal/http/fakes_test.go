package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/user"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/wishlist"
)

type memUsers struct {
	users []user.User
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) Create(ctx context.Context, email, hash string) (user.User, error) {
	if _, err := m.GetByEmail(ctx, email); err == nil {
		return user.User{}, user.ErrEmailTaken
	}
	u := user.User{ID: int64(len(m.users) + 1), Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.users = append(m.users, u)
	return u, nil
}

type memProducts struct {
	products []catalog.Product
}

func (m *memProducts) List(ctx context.Context) ([]catalog.Product, error) {
	return append([]catalog.Product(nil), m.products...), nil
}

func (m *memProducts) Get(ctx context.Context, id int64) (catalog.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (m *memProducts) Create(ctx context.Context, in catalog.NewProduct) (catalog.Product, error) {
	p := catalog.Product{
		ID:          int64(100 + len(m.products)),
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Name:        in.Name,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
	}
	m.products = append(m.products, p)
	return p, nil
}

type memCarts struct {
	nextID int64
	items  []cart.Item
}

func (m *memCarts) AddOrIncrement(ctx context.Context, userID int64, p catalog.Product) (cart.Item, bool, error) {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].ProductID == p.ID {
			m.items[i].Quantity++
			return m.items[i], false, nil
		}
	}
	m.nextID++
	it := cart.Item{ID: m.nextID, UserID: userID, ProductID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Quantity: 1}
	m.items = append(m.items, it)
	return it, true, nil
}

func (m *memCarts) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	for i, it := range m.items {
		if it.UserID == userID && it.ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memCarts) ListByUser(ctx context.Context, userID int64) ([]cart.Item, error) {
	out := []cart.Item{}
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memWishes struct {
	nextID int64
	items  []wishlist.Item
}

func (m *memWishes) Insert(ctx context.Context, userID int64, p catalog.Product) (wishlist.Item, bool, error) {
	for _, it := range m.items {
		if it.UserID == userID && it.ProductID == p.ID {
			return wishlist.Item{}, false, nil
		}
	}
	m.nextID++
	it := wishlist.Item{ID: m.nextID, UserID: userID, ProductID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
	m.items = append(m.items, it)
	return it, true, nil
}

func (m *memWishes) Delete(ctx context.Context, userID, itemID int64) (bool, error) {
	for i, it := range m.items {
		if it.ID == itemID && it.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memWishes) ListByUser(ctx context.Context, userID int64) ([]wishlist.Item, error) {
	out := []wishlist.Item{}
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type capturePublisher struct {
	mu   sync.Mutex
	sent []events.Event
	err  error
}

func (p *capturePublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, ev)
	return nil
}

func (p *capturePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, ev := range p.sent {
		out = append(out, ev.Name)
	}
	return out
}

var errPublish = errors.New("broker unavailable")

type testEnv struct {
	router    http.Handler
	users     *memUsers
	products  *memProducts
	carts     *memCarts
	wishes    *memWishes
	publisher *capturePublisher
	metrics   *metrics.Metrics
	sessions  *session.Manager
}

func seedProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 10, Category: "Accessories", SubCategory: "Bags", Name: "Gym bag", Price: "$19.99", ImageURL: "bag.png"},
		{ID: 11, Category: "Supplements", SubCategory: "Protein", Name: "Whey", Price: "$5", ImageURL: "whey.png"},
	}
}

func newTestEnv(t *testing.T, limiter *RateLimiter) *testEnv {
	t.Helper()

	e := &testEnv{
		users:     &memUsers{},
		products:  &memProducts{products: seedProducts()},
		carts:     &memCarts{},
		wishes:    &memWishes{},
		publisher: &capturePublisher{},
		metrics:   metrics.New(),
		sessions:  session.NewManager("test-secret", time.Hour, false),
	}
	products := catalog.NewService(e.products)

	h := NewHandler(Deps{
		Sessions:  e.sessions,
		Auth:      auth.NewGate(e.users, auth.NewPasswordHasher(1000)),
		Catalog:   products,
		Carts:     cart.NewManager(e.carts, products),
		Wishlists: wishlist.NewManager(e.wishes, products),
		Events:    e.publisher,
		Metrics:   e.metrics,
		Limiter:   limiter,
	})
	e.router = NewRouter(h)
	return e
}

// client is a tiny browser: it replays the cookies the server set.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, handler: e.router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

func (c *client) register(email, password string) *httptest.ResponseRecorder {
	return c.post("/register", url.Values{"email": {email}, "password": {password}})
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	return c.post("/login", url.Values{"email": {email}, "password": {password}})
}
