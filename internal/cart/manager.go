package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
)

var ErrTotalOverflow = errors.New("cart total out of range")

// maxGrandTotal leaves room for ShippingFee in an int64.
var maxGrandTotal = decimal.NewFromInt(math.MaxInt64 - ShippingFee)

type ProductLookup interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// Manager owns the per-user cart. Every operation takes the caller's identity
// and fails with auth.ErrUnauthenticated for anonymous callers.
type Manager struct {
	repo     Repository
	products ProductLookup
}

func NewManager(repo Repository, products ProductLookup) *Manager {
	return &Manager{repo: repo, products: products}
}

func (m *Manager) AddToCart(ctx context.Context, caller auth.Identity, productID int64) (Result, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Result{}, err
	}

	p, err := m.products.Get(ctx, productID)
	if err != nil {
		return Result{}, fmt.Errorf("load product %d: %w", productID, err)
	}

	it, inserted, err := m.repo.AddOrIncrement(ctx, caller.UserID, p)
	if err != nil {
		return Result{}, err
	}
	if inserted {
		return Result{Outcome: Added, Item: it}, nil
	}
	return Result{Outcome: Incremented, Item: it}, nil
}

// RemoveFromCart deletes the caller's row for productID. A missing row is a
// NotFound outcome, not an error.
func (m *Manager) RemoveFromCart(ctx context.Context, caller auth.Identity, productID int64) (Result, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Result{}, err
	}

	deleted, err := m.repo.Delete(ctx, caller.UserID, productID)
	if err != nil {
		return Result{}, err
	}
	if !deleted {
		return Result{Outcome: NotFound, Item: Item{UserID: caller.UserID, ProductID: productID}}, nil
	}
	return Result{Outcome: Removed, Item: Item{UserID: caller.UserID, ProductID: productID}}, nil
}

// ListCart returns the caller's lines and totals. Only the caller's rows are listed.
func (m *Manager) ListCart(ctx context.Context, caller auth.Identity) (Summary, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Summary{}, err
	}

	items, err := m.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items)
}

// Summarize computes line totals from truncated unit prices, the grand total
// and the grand total plus ShippingFee. An empty cart totals ShippingFee.
// Sums are kept in decimal and fail with ErrTotalOverflow instead of wrapping.
func Summarize(items []Item) (Summary, error) {
	s := Summary{Lines: make([]Line, 0, len(items))}
	grand := decimal.Zero
	for _, it := range items {
		unit, err := catalog.UnitPrice(it.Price)
		if err != nil {
			return Summary{}, fmt.Errorf("cart item %d: %w", it.ID, err)
		}
		total := decimal.NewFromInt(unit).Mul(decimal.NewFromInt(int64(it.Quantity)))
		grand = grand.Add(total)
		if grand.GreaterThan(maxGrandTotal) {
			return Summary{}, fmt.Errorf("cart item %d: %w", it.ID, ErrTotalOverflow)
		}
		s.Lines = append(s.Lines, Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			ImageURL:  it.ImageURL,
			Quantity:  it.Quantity,
			Total:     total.IntPart(),
		})
	}
	s.GrandTotal = grand.IntPart()
	s.GrandTotalPlusShipping = s.GrandTotal + ShippingFee
	return s, nil
}
