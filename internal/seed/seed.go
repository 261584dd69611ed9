package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU        string
	Name       string
	ListPrice  string
	SalePrice  string
	TierPrices string
	InStock    int64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureStore(ctx, pool, "demo", "Demo Store", "USD", "en-US"); err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}
	if err := ensureCurrency(ctx, pool, "USD", "US Dollar", "$", 2); err != nil {
		return fmt.Errorf("ensure currency: %w", err)
	}
	if err := ensureCurrency(ctx, pool, "EUR", "Euro", "€", 2); err != nil {
		return fmt.Errorf("ensure currency: %w", err)
	}

	products := []productSeed{
		{
			SKU:        "SKU-DEMO-TSHIRT",
			Name:       "Demo T-Shirt",
			ListPrice:  "19.99",
			SalePrice:  "17.99",
			TierPrices: `[{"quantity": 5, "price": "15.99"}, {"quantity": 10, "price": "13.99"}]`,
			InStock:    250,
		},
		{
			SKU:       "SKU-DEMO-MUG",
			Name:      "Demo Mug",
			ListPrice: "12.99",
			SalePrice: "12.99",
			InStock:   120,
		},
		{
			SKU:       "SKU-DEMO-POSTER",
			Name:      "Demo Poster",
			ListPrice: "8.50",
			SalePrice: "6.00",
			InStock:   60,
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := seedMethods(ctx, pool, "demo"); err != nil {
		return err
	}
	if err := seedPromotions(ctx, pool, "demo"); err != nil {
		return err
	}
	return nil
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, id, name, currency, language string) error {
	const q = `
INSERT INTO stores (id, name, default_currency, default_language)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	default_currency = EXCLUDED.default_currency,
	default_language = EXCLUDED.default_language
`
	_, err := pool.Exec(ctx, q, id, name, currency, language)
	return err
}

func ensureCurrency(ctx context.Context, pool *pgxpool.Pool, code, name, symbol string, digits int) error {
	const q = `
INSERT INTO currencies (code, name, symbol, decimal_digits)
VALUES ($1, $2, $3, $4)
ON CONFLICT (code) DO UPDATE SET
	name = EXCLUDED.name,
	symbol = EXCLUDED.symbol,
	decimal_digits = EXCLUDED.decimal_digits
`
	_, err := pool.Exec(ctx, q, code, name, symbol, digits)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	tiers := p.TierPrices
	if tiers == "" {
		tiers = "[]"
	}
	const q = `
INSERT INTO products (sku, name, list_price, sale_price, tier_prices, in_stock)
VALUES ($1, $2, $3, $4, $5::jsonb, $6)
ON CONFLICT (sku) DO UPDATE SET
	name = EXCLUDED.name,
	list_price = EXCLUDED.list_price,
	sale_price = EXCLUDED.sale_price,
	tier_prices = EXCLUDED.tier_prices,
	in_stock = EXCLUDED.in_stock
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.ListPrice, p.SalePrice, tiers, p.InStock)
	return err
}

func seedMethods(ctx context.Context, pool *pgxpool.Pool, storeID string) error {
	const shippingQ = `
INSERT INTO shipping_methods (store_id, code, name, priority, base_rate, rate_per_item, options)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
ON CONFLICT (store_id, code) DO UPDATE SET
	name = EXCLUDED.name,
	priority = EXCLUDED.priority,
	base_rate = EXCLUDED.base_rate,
	rate_per_item = EXCLUDED.rate_per_item,
	options = EXCLUDED.options
`
	shipping := []struct {
		code, name                string
		priority                  int
		baseRate, perItem, option string
	}{
		{"ground", "Ground", 1, "4.99", "0.50", `[]`},
		{"express", "Express", 2, "14.99", "0", `["morning", "afternoon"]`},
	}
	for _, m := range shipping {
		if _, err := pool.Exec(ctx, shippingQ, storeID, m.code, m.name, m.priority, m.baseRate, m.perItem, m.option); err != nil {
			return fmt.Errorf("upsert shipping method %s: %w", m.code, err)
		}
	}

	const paymentQ = `
INSERT INTO payment_methods (store_id, code, name, priority, price)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (store_id, code) DO UPDATE SET
	name = EXCLUDED.name,
	priority = EXCLUDED.priority,
	price = EXCLUDED.price
`
	payments := []struct {
		code, name string
		priority   int
		price      string
	}{
		{"invoice", "Pay by Invoice", 1, "0"},
		{"cod", "Cash on Delivery", 2, "3.50"},
	}
	for _, m := range payments {
		if _, err := pool.Exec(ctx, paymentQ, storeID, m.code, m.name, m.priority, m.price); err != nil {
			return fmt.Errorf("upsert payment method %s: %w", m.code, err)
		}
	}

	const taxQ = `
INSERT INTO tax_providers (store_id, code, name, percent_rate)
VALUES ($1, $2, $3, $4)
ON CONFLICT (store_id, code) DO UPDATE SET
	name = EXCLUDED.name,
	percent_rate = EXCLUDED.percent_rate
`
	if _, err := pool.Exec(ctx, taxQ, storeID, "flat", "Flat Rate Tax", "0.10"); err != nil {
		return fmt.Errorf("upsert tax provider: %w", err)
	}
	return nil
}

func seedPromotions(ctx context.Context, pool *pgxpool.Pool, storeID string) error {
	const q = `
INSERT INTO promotions (id, store_id, name, priority, kind, coupon, min_sub_total, is_percent, amount, amount_percent, max_limit)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	priority = EXCLUDED.priority,
	kind = EXCLUDED.kind,
	coupon = EXCLUDED.coupon,
	min_sub_total = EXCLUDED.min_sub_total,
	is_percent = EXCLUDED.is_percent,
	amount = EXCLUDED.amount,
	amount_percent = EXCLUDED.amount_percent,
	max_limit = EXCLUDED.max_limit
`
	promos := []struct {
		id, name string
		priority int
		kind     string
		coupon   string
		minSub   string
		percent  bool
		amount   string
		pct      string
		maxLimit string
	}{
		{
			id:       "11111111-1111-1111-1111-111111111111",
			name:     "10% off orders over 50",
			priority: 1,
			kind:     "cart_subtotal",
			minSub:   "50.00",
			percent:  true,
			amount:   "0",
			pct:      "0.10",
			maxLimit: "25.00",
		},
		{
			id:       "22222222-2222-2222-2222-222222222222",
			name:     "Free ground shipping with coupon",
			priority: 2,
			kind:     "shipment",
			coupon:   "FREESHIP",
			minSub:   "0",
			percent:  true,
			amount:   "0",
			pct:      "1.00",
			maxLimit: "0",
		},
	}
	for _, p := range promos {
		_, err := pool.Exec(ctx, q, p.id, storeID, p.name, p.priority, p.kind,
			p.coupon, p.minSub, p.percent, p.amount, p.pct, p.maxLimit)
		if err != nil {
			return fmt.Errorf("upsert promotion %s: %w", p.name, err)
		}
	}
	return nil
}
