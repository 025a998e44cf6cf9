package wishlist

import (
	"context"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
)

type ProductLookup interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

type Manager struct {
	repo     Repository
	products ProductLookup
}

func NewManager(repo Repository, products ProductLookup) *Manager {
	return &Manager{repo: repo, products: products}
}

// AddToWishlist stores productID for the caller. A repeated add reports
// AlreadyExists and leaves the stored row untouched.
func (m *Manager) AddToWishlist(ctx context.Context, caller auth.Identity, productID int64) (Result, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Result{}, err
	}

	p, err := m.products.Get(ctx, productID)
	if err != nil {
		return Result{}, fmt.Errorf("load product %d: %w", productID, err)
	}

	it, created, err := m.repo.Insert(ctx, caller.UserID, p)
	if err != nil {
		return Result{}, err
	}
	if !created {
		return Result{Outcome: AlreadyExists, Item: Item{UserID: caller.UserID, ProductID: productID}}, nil
	}
	return Result{Outcome: Added, Item: it}, nil
}

// RemoveFromWishlist deletes the item only when the caller owns it; anything
// else is NotFound.
func (m *Manager) RemoveFromWishlist(ctx context.Context, caller auth.Identity, itemID int64) (Result, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Result{}, err
	}

	deleted, err := m.repo.Delete(ctx, caller.UserID, itemID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Outcome: Removed, Item: Item{ID: itemID, UserID: caller.UserID}}
	if !deleted {
		res.Outcome = NotFound
	}
	return res, nil
}

func (m *Manager) ListWishlist(ctx context.Context, caller auth.Identity) ([]Item, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return m.repo.ListByUser(ctx, caller.UserID)
}
