package domain

import "github.com/shopspring/decimal"

// Promotion is a configured marketing rule scoped to a store. Coupon-gated
// promotions apply only when the coupon is on the cart; MinSubTotal gates
// on the cart subtotal. Kind selects what the resulting reward targets.
type Promotion struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"storeId"`
	Name          string          `json:"name"`
	IsActive      bool            `json:"isActive"`
	Priority      int             `json:"priority"`
	Kind          string          `json:"kind"`
	Coupon        string          `json:"coupon,omitempty"`
	ProductID     string          `json:"productId,omitempty"`
	MethodCode    string          `json:"methodCode,omitempty"`
	MinSubTotal   decimal.Decimal `json:"minSubTotal"`
	IsPercent     bool            `json:"isPercent"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPercent decimal.Decimal `json:"amountPercent"`
	MaxLimit      decimal.Decimal `json:"maxLimit"`
}
