package promotion

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	promosvc "storefront-purchase/internal/service/promotion"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns the promotion configuration source backed by the
// promotions table.
func NewPostgres(pool *pgxpool.Pool) promosvc.Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) FindActiveByStore(ctx context.Context, storeID string) ([]domain.Promotion, error) {
	const q = `
SELECT id::text, store_id, name, is_active, priority, kind,
       COALESCE(coupon, ''), COALESCE(product_id::text, ''), COALESCE(method_code, ''),
       min_sub_total, is_percent, amount, amount_percent, max_limit
FROM promotions
WHERE store_id = $1 AND is_active
ORDER BY priority, id
`
	rows, err := r.pool.Query(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Promotion
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.IsActive, &p.Priority, &p.Kind,
			&p.Coupon, &p.ProductID, &p.MethodCode,
			&p.MinSubTotal, &p.IsPercent, &p.Amount, &p.AmountPercent, &p.MaxLimit); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
