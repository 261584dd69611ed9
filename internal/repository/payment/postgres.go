package payment

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

// NewPostgres returns the payment method search backed by the
// payment_methods table. logger may be nil.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) cartsvc.PaymentMethodSearch {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Search(ctx context.Context, criteria cartsvc.MethodSearchCriteria) ([]domain.PaymentMethod, error) {
	const q = `
SELECT id::text, store_id, code, name, is_active, priority, price
FROM payment_methods
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
		r.logger.Printf("payment repo: search store_id=%s error=%v", criteria.StoreID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.StoreID, &m.Code, &m.Name, &m.IsActive, &m.Priority, &m.Price); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("payment repo: search rows store_id=%s error=%v", criteria.StoreID, err)
		return nil, err
	}
	return result, nil
}
