package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	// AddOrIncrement inserts a quantity-1 row for (userID, p.ID) or bumps the
	// existing row by one. inserted reports which happened.
	AddOrIncrement(ctx context.Context, userID int64, p catalog.Product) (item Item, inserted bool, err error)
	Delete(ctx context.Context, userID, productID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) AddOrIncrement(ctx context.Context, userID int64, p catalog.Product) (Item, bool, error) {
	var (
		it       Item
		inserted bool
	)
	// xmax is zero only for a freshly inserted tuple.
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, name, price, img_url, quantity)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + 1, updated_at = now()
		RETURNING id, user_id, product_id, name, price, img_url, quantity, (xmax = 0) AS inserted
	`, userID, p.ID, p.Name, p.Price, p.ImageURL).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL, &it.Quantity, &inserted)
	if err != nil {
		return Item{}, false, fmt.Errorf("upsert cart item: %w", err)
	}
	return it, inserted, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, product_id, name, price, img_url, quantity
		FROM cart_items
		WHERE user_id=$1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
