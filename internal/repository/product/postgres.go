package product

import (
	"context"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
)

type Repo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns the product snapshot loader backed by the products
// table. logger may be nil.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Repo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Repo{pool: pool, logger: logger}
}

// GetCartProducts loads the snapshot entries for the given product ids in
// one batch. Unknown ids are absent from the result, not an error.
func (r *Repo) GetCartProducts(ctx context.Context, _ *domain.Cart, productIDs []string) (map[string]domain.CartProduct, error) {
	if len(productIDs) == 0 {
		return map[string]domain.CartProduct{}, nil
	}
	const q = `
SELECT id::text, sku, name, list_price, sale_price, tier_prices, in_stock, is_available, is_buyable
FROM products
WHERE id::text = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, productIDs)
	if err != nil {
		r.logger.Printf("product repo: batch ids=%d error=%v", len(productIDs), err)
		return nil, err
	}
	defer rows.Close()

	result := map[string]domain.CartProduct{}
	for rows.Next() {
		var p domain.CartProduct
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.ListPrice, &p.SalePrice, &p.TierPrices, &p.InStock, &p.IsAvailable, &p.IsBuyable); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: batch rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: batch ids=%d found=%d", len(productIDs), len(result))
	return result, nil
}

// Upsert inserts or updates a catalog product keyed by SKU.
func (r *Repo) Upsert(ctx context.Context, p domain.CartProduct) (*domain.CartProduct, error) {
	const q = `
INSERT INTO products (id, sku, name, list_price, sale_price, tier_prices, in_stock, is_available, is_buyable)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (sku) DO UPDATE SET
	name = EXCLUDED.name,
	list_price = EXCLUDED.list_price,
	sale_price = EXCLUDED.sale_price,
	tier_prices = EXCLUDED.tier_prices,
	in_stock = EXCLUDED.in_stock,
	is_available = EXCLUDED.is_available,
	is_buyable = EXCLUDED.is_buyable
RETURNING id::text
`
	saved := p
	err := r.pool.QueryRow(ctx, q,
		p.ID, p.SKU, p.Name, p.ListPrice, p.SalePrice, p.TierPrices,
		p.InStock, p.IsAvailable, p.IsBuyable,
	).Scan(&saved.ID)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	return &saved, nil
}
