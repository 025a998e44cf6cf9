package wishlist

import (
	"context"
	"errors"
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
	// Insert adds (userID, p.ID) unless it is already present; created is
	// false when the pair existed and nothing was written.
	Insert(ctx context.Context, userID int64, p catalog.Product) (item Item, created bool, err error)
	// Delete removes item id only when it belongs to userID.
	Delete(ctx context.Context, userID, itemID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, userID int64, p catalog.Product) (Item, bool, error) {
	var it Item
	err := r.pool.QueryRow(ctx, `
		INSERT INTO wishlist_items (user_id, product_id, name, price, img_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING id, user_id, product_id, name, price, img_url
	`, userID, p.ID, p.Name, p.Price, p.ImageURL).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, false, nil
		}
		return Item{}, false, fmt.Errorf("insert wishlist item: %w", err)
	}
	return it, true, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, itemID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return false, fmt.Errorf("delete wishlist item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, product_id, name, price, img_url
		FROM wishlist_items
		WHERE user_id=$1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select wishlist items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
