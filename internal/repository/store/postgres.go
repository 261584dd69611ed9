package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns the store resolver backed by the stores table.
func NewPostgres(pool *pgxpool.Pool) cartsvc.StoreService {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, storeID string) (*domain.Store, error) {
	const q = `
SELECT id, name, default_currency, COALESCE(default_language, ''), tax_calculation_enabled
FROM stores
WHERE id = $1
`
	var s domain.Store
	err := r.pool.QueryRow(ctx, q, storeID).Scan(&s.ID, &s.Name, &s.DefaultCurrency, &s.DefaultLanguage, &s.TaxCalculationEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
