package shipping

import (
	"context"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns the shipping method search backed by the
// shipping_methods table. logger may be nil.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) cartsvc.ShippingMethodSearch {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Search(ctx context.Context, criteria cartsvc.MethodSearchCriteria) ([]domain.ShippingMethod, error) {
	const q = `
SELECT id::text, store_id, code, name, is_active, priority, base_rate, rate_per_item, options
FROM shipping_methods
WHERE store_id = $1
  AND (NOT $2 OR is_active)
ORDER BY priority, code
LIMIT $3
`
	take := criteria.Take
	if take <= 0 {
		take = 20
	}
	rows, err := r.pool.Query(ctx, q, criteria.StoreID, criteria.IsActive, take)
	if err != nil {
		r.logger.Printf("shipping repo: search store_id=%s error=%v", criteria.StoreID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShippingMethod
	for rows.Next() {
		var m domain.ShippingMethod
		if err := rows.Scan(&m.ID, &m.StoreID, &m.Code, &m.Name, &m.IsActive, &m.Priority, &m.BaseRate, &m.RatePerItem, &m.Options); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("shipping repo: search rows store_id=%s error=%v", criteria.StoreID, err)
		return nil, err
	}
	return result, nil
}
