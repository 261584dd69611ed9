package currency

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns the currency registry backed by the currencies table.
func NewPostgres(pool *pgxpool.Pool) cartsvc.CurrencyService {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) FindAll(ctx context.Context) ([]domain.Currency, error) {
	const q = `
SELECT code, name, symbol, exchange_rate, decimal_digits, COALESCE(custom_formatting, ''), COALESCE(language_code, '')
FROM currencies
ORDER BY code
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Currency
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.Code, &c.Name, &c.Symbol, &c.ExchangeRate, &c.DecimalDigits, &c.CustomFormatting, &c.LanguageCode); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
