package tax

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns the tax provider search backed by the tax_providers
// table.
func NewPostgres(pool *pgxpool.Pool) cartsvc.TaxProviderSearch {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) FindProviders(ctx context.Context, storeIDs []string) ([]domain.TaxProvider, error) {
	const q = `
SELECT id::text, store_id, code, name, is_active, percent_rate
FROM tax_providers
WHERE store_id = ANY($1)
ORDER BY store_id, code
`
	rows, err := r.pool.Query(ctx, q, storeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaxProvider
	for rows.Next() {
		var p domain.TaxProvider
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Code, &p.Name, &p.IsActive, &p.PercentRate); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
