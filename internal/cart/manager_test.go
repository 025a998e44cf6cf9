package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
)

type memRepository struct {
	nextID int64
	items  []Item

	addErr error
}

func (m *memRepository) AddOrIncrement(ctx context.Context, userID int64, p catalog.Product) (Item, bool, error) {
	if m.addErr != nil {
		return Item{}, false, m.addErr
	}
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].ProductID == p.ID {
			m.items[i].Quantity++
			return m.items[i], false, nil
		}
	}
	m.nextID++
	it := Item{ID: m.nextID, UserID: userID, ProductID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Quantity: 1}
	m.items = append(m.items, it)
	return it, true, nil
}

func (m *memRepository) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	for i, it := range m.items {
		if it.UserID == userID && it.ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepository) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	var out []Item
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type productMap map[int64]catalog.Product

func (p productMap) Get(ctx context.Context, id int64) (catalog.Product, error) {
	if prod, ok := p[id]; ok {
		return prod, nil
	}
	return catalog.Product{}, catalog.ErrNotFound
}

var (
	alice = auth.Identity{UserID: 2, Email: "alice@x.com"}
	bob   = auth.Identity{UserID: 3, Email: "bob@x.com"}

	products = productMap{
		10: {ID: 10, Name: "Shaker", Price: "$19.99", ImageURL: "shaker.png"},
		11: {ID: 11, Name: "Towel", Price: "$5", ImageURL: "towel.png"},
	}
)

func TestAddToCartTwiceIncrements(t *testing.T) {
	repo := &memRepository{}
	m := NewManager(repo, products)
	ctx := context.Background()

	first, err := m.AddToCart(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, Added, first.Outcome)
	assert.Equal(t, 1, first.Item.Quantity)
	assert.Equal(t, "Shaker", first.Item.Name)

	second, err := m.AddToCart(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, Incremented, second.Outcome)
	assert.Equal(t, 2, second.Item.Quantity)

	items, err := repo.ListByUser(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddToCartErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		repo := &memRepository{}
		_, err := NewManager(repo, products).AddToCart(ctx, auth.Identity{}, 10)
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
		assert.Empty(t, repo.items)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := &memRepository{}
		_, err := NewManager(repo, products).AddToCart(ctx, alice, 404)
		require.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Empty(t, repo.items)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		repo := &memRepository{addErr: errors.New("db down")}
		_, err := NewManager(repo, products).AddToCart(ctx, alice, 10)
		require.Error(t, err)
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	repo := &memRepository{}
	m := NewManager(repo, products)

	_, err := m.AddToCart(ctx, alice, 10)
	require.NoError(t, err)

	res, err := m.RemoveFromCart(ctx, bob, 10)
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome, "other users cannot remove alice's row")
	require.Len(t, repo.items, 1)

	res, err = m.RemoveFromCart(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, Removed, res.Outcome)
	assert.Empty(t, repo.items)

	res, err = m.RemoveFromCart(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)

	_, err = m.RemoveFromCart(ctx, auth.Identity{}, 10)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestListCartScopedToCaller(t *testing.T) {
	ctx := context.Background()
	repo := &memRepository{}
	m := NewManager(repo, products)

	for i := 0; i < 3; i++ {
		_, err := m.AddToCart(ctx, alice, 10)
		require.NoError(t, err)
	}
	_, err := m.AddToCart(ctx, alice, 11)
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, bob, 11)
	require.NoError(t, err)

	s, err := m.ListCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, int64(57), s.Lines[0].Total)
	assert.Equal(t, int64(5), s.Lines[1].Total)
	assert.Equal(t, int64(62), s.GrandTotal)
	assert.Equal(t, int64(82), s.GrandTotalPlusShipping)

	_, err = m.ListCart(ctx, auth.Identity{})
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestSummarize(t *testing.T) {
	tests := map[string]struct {
		items        []Item
		wantTotal    int64
		wantShipping int64
		wantErr      error
	}{
		"empty cart": {
			wantTotal:    0,
			wantShipping: 20,
		},
		"fraction truncated per unit": {
			items:        []Item{{ProductID: 1, Price: "$19.99", Quantity: 3}},
			wantTotal:    57,
			wantShipping: 77,
		},
		"several lines": {
			items: []Item{
				{ProductID: 1, Price: "$10", Quantity: 2},
				{ProductID: 2, Price: "$0.99", Quantity: 5},
				{ProductID: 3, Price: "7", Quantity: 1},
			},
			wantTotal:    27,
			wantShipping: 47,
		},
		"unparseable price": {
			items:   []Item{{ProductID: 1, Price: "ten", Quantity: 1}},
			wantErr: catalog.ErrInvalidPrice,
		},
		"price above maximum": {
			items:   []Item{{ProductID: 1, Price: "$99999999999999999999", Quantity: 1}},
			wantErr: catalog.ErrInvalidPrice,
		},
		"maximum prices": {
			items: []Item{
				{ProductID: 1, Price: "$1000000000", Quantity: 3},
				{ProductID: 2, Price: "$1000000000.50", Quantity: 2},
			},
			wantTotal:    5_000_000_000,
			wantShipping: 5_000_000_020,
		},
		"grand total overflows": {
			items: []Item{
				{ProductID: 1, Price: "$1000000000", Quantity: 2_000_000_000},
				{ProductID: 2, Price: "$1000000000", Quantity: 2_000_000_000},
				{ProductID: 3, Price: "$1000000000", Quantity: 2_000_000_000},
				{ProductID: 4, Price: "$1000000000", Quantity: 2_000_000_000},
				{ProductID: 5, Price: "$1000000000", Quantity: 2_000_000_000},
			},
			wantErr: ErrTotalOverflow,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Summarize(tt.items)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, s.GrandTotal)
			assert.Equal(t, tt.wantShipping, s.GrandTotalPlusShipping)
			assert.Len(t, s.Lines, len(tt.items))
			assert.NotNil(t, s.Lines)
		})
	}
}
