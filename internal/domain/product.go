package domain

import "github.com/shopspring/decimal"

// CartProduct is a snapshot of product pricing and availability data,
// loaded once per aggregate lifetime and keyed by product id.
type CartProduct struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	ListPrice   decimal.Decimal `json:"listPrice"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	TierPrices  []TierPrice     `json:"tierPrices,omitempty"`
	InStock     int64           `json:"inStock"`
	IsAvailable bool            `json:"isAvailable"`
	IsBuyable   bool            `json:"isBuyable"`
}

// TierPrice is one quantity price break. Tiers are kept sorted by
// ascending quantity.
type TierPrice struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PriceForQuantity resolves the sale price for the given quantity from the
// tier table: the highest tier whose quantity does not exceed qty wins.
// Without a matching tier the base sale price is returned.
func (p CartProduct) PriceForQuantity(qty int) decimal.Decimal {
	price := p.SalePrice
	for _, tier := range p.TierPrices {
		if tier.Quantity > qty {
			break
		}
		price = tier.Price
	}
	return price
}
