package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns the cart store backed by the carts table. Nested
// collections live in jsonb columns and travel with the row; logger may
// be nil.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) cartsvc.CartStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const cartColumns = `
id::text, store_id, customer_id, COALESCE(customer_name, ''), name, COALESCE(type, ''),
currency, COALESCE(language_code, ''), COALESCE(comment, ''), is_anonymous,
items, shipments, payments, coupons, discount_amount, tax_details, failures, totals,
created_at, modified_at`

func (r *postgresRepo) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	const q = `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`
	cart, err := r.scanCart(r.pool.QueryRow(ctx, q, cartID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("cart repo: get id=%s not found", cartID)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: get id=%s error=%v", cartID, err)
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Find(ctx context.Context, criteria cartsvc.CartSearchCriteria) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE store_id = $1
  AND customer_id = $2
  AND name = $3
  AND ($4 = '' OR currency = $4)
  AND COALESCE(type, '') = $5
ORDER BY modified_at DESC
LIMIT 1
`
	cart, err := r.scanCart(r.pool.QueryRow(ctx, q,
		criteria.StoreID, criteria.CustomerID, criteria.Name, criteria.Currency, criteria.Type))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: find store_id=%s customer_id=%s name=%s error=%v",
			criteria.StoreID, criteria.CustomerID, criteria.Name, err)
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Search(ctx context.Context, criteria cartsvc.CartSearchCriteria) ([]domain.Cart, int, error) {
	const q = `
SELECT ` + cartColumns + `, COUNT(*) OVER() AS total
FROM carts
WHERE ($1 = '' OR store_id = $1)
  AND ($2 = '' OR customer_id = $2)
  AND ($3 = '' OR name = $3)
  AND ($4 = '' OR COALESCE(type, '') = $4)
  AND ($5 = '' OR currency = $5)
ORDER BY modified_at DESC
OFFSET $6
LIMIT $7
`
	take := criteria.Take
	if take <= 0 {
		take = 20
	}
	rows, err := r.pool.Query(ctx, q,
		criteria.StoreID, criteria.CustomerID, criteria.Name, criteria.Type, criteria.Currency,
		criteria.Skip, take)
	if err != nil {
		r.logger.Printf("cart repo: search store_id=%s error=%v", criteria.StoreID, err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Cart
	total := 0
	for rows.Next() {
		cart, err := r.scanCartWithTotal(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *cart)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cart repo: search rows store_id=%s error=%v", criteria.StoreID, err)
		return nil, 0, err
	}
	r.logger.Printf("cart repo: search store_id=%s count=%d total=%d", criteria.StoreID, len(result), total)
	return result, total, nil
}

func (r *postgresRepo) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (
    id, store_id, customer_id, customer_name, name, type, currency, language_code,
    comment, is_anonymous, items, shipments, payments, coupons, discount_amount,
    tax_details, failures, totals
)
VALUES (
    COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, NULLIF($8, ''),
    NULLIF($9, ''), $10, $11, $12, $13, $14, $15, $16, $17, $18
)
ON CONFLICT (id) DO UPDATE SET
    customer_id = EXCLUDED.customer_id,
    customer_name = EXCLUDED.customer_name,
    name = EXCLUDED.name,
    type = EXCLUDED.type,
    currency = EXCLUDED.currency,
    language_code = EXCLUDED.language_code,
    comment = EXCLUDED.comment,
    is_anonymous = EXCLUDED.is_anonymous,
    items = EXCLUDED.items,
    shipments = EXCLUDED.shipments,
    payments = EXCLUDED.payments,
    coupons = EXCLUDED.coupons,
    discount_amount = EXCLUDED.discount_amount,
    tax_details = EXCLUDED.tax_details,
    failures = EXCLUDED.failures,
    totals = EXCLUDED.totals,
    modified_at = now()
RETURNING ` + cartColumns
	saved, err := r.scanCart(r.pool.QueryRow(ctx, q,
		cart.ID, cart.StoreID, cart.CustomerID, cart.CustomerName, cart.Name, cart.Type,
		cart.Currency, cart.LanguageCode, cart.Comment, cart.IsAnonymous,
		cart.Items, cart.Shipments, cart.Payments, cart.Coupons, cart.DiscountAmount,
		cart.TaxDetails, cart.Failures, cart.Totals))
	if err != nil {
		r.logger.Printf("cart repo: save id=%s store_id=%s error=%v", cart.ID, cart.StoreID, err)
		return nil, err
	}
	r.logger.Printf("cart repo: saved id=%s store_id=%s items=%d", saved.ID, saved.StoreID, len(saved.Items))
	return saved, nil
}

func (r *postgresRepo) Delete(ctx context.Context, cartID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		r.logger.Printf("cart repo: delete id=%s error=%v", cartID, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("cart repo: deleted id=%s", cartID)
	return nil
}

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(
		&cart.ID, &cart.StoreID, &cart.CustomerID, &cart.CustomerName, &cart.Name, &cart.Type,
		&cart.Currency, &cart.LanguageCode, &cart.Comment, &cart.IsAnonymous,
		&cart.Items, &cart.Shipments, &cart.Payments, &cart.Coupons, &cart.DiscountAmount,
		&cart.TaxDetails, &cart.Failures, &cart.Totals,
		&cart.CreatedAt, &cart.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) scanCartWithTotal(row pgx.Row, total *int) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(
		&cart.ID, &cart.StoreID, &cart.CustomerID, &cart.CustomerName, &cart.Name, &cart.Type,
		&cart.Currency, &cart.LanguageCode, &cart.Comment, &cart.IsAnonymous,
		&cart.Items, &cart.Shipments, &cart.Payments, &cart.Coupons, &cart.DiscountAmount,
		&cart.TaxDetails, &cart.Failures, &cart.Totals,
		&cart.CreatedAt, &cart.ModifiedAt,
		total,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
