package domain

import "github.com/shopspring/decimal"

// ShippingMethod is a configured delivery method scoped to a store.
type ShippingMethod struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	IsActive    bool            `json:"isActive"`
	Priority    int             `json:"priority"`
	BaseRate    decimal.Decimal `json:"baseRate"`
	RatePerItem decimal.Decimal `json:"ratePerItem"`
	Options     []string        `json:"options,omitempty"`
}

// CalculateRates produces one candidate rate per method option (or a
// single unnamed option) for the given cart item count.
func (m ShippingMethod) CalculateRates(itemCount int) []ShippingRate {
	rate := m.BaseRate.Add(m.RatePerItem.Mul(decimal.NewFromInt(int64(itemCount))))
	options := m.Options
	if len(options) == 0 {
		options = []string{""}
	}
	rates := make([]ShippingRate, 0, len(options))
	for _, option := range options {
		rates = append(rates, ShippingRate{Method: m, OptionName: option, Rate: rate})
	}
	return rates
}

// ShippingRate is a priced shipping candidate annotated with promotion
// and tax results.
type ShippingRate struct {
	Method         ShippingMethod  `json:"method"`
	OptionName     string          `json:"optionName,omitempty"`
	Rate           decimal.Decimal `json:"rate"`
	RateWithTax    decimal.Decimal `json:"rateWithTax"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// PaymentMethod is a configured payment gateway scoped to a store.
type PaymentMethod struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"storeId"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	IsActive       bool            `json:"isActive"`
	Priority       int             `json:"priority"`
	Price          decimal.Decimal `json:"price"`
	PriceWithTax   decimal.Decimal `json:"priceWithTax"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	TaxPercentRate decimal.Decimal `json:"taxPercentRate"`
}

// TaxProvider computes tax rates for a store. The shipped implementation
// applies a flat percent rate per taxable line, which is enough for the
// cart pipeline; richer providers plug in the same way.
type TaxProvider struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	IsActive    bool            `json:"isActive"`
	PercentRate decimal.Decimal `json:"percentRate"`
}

// CalculateRates returns one tax rate per context line.
func (p TaxProvider) CalculateRates(taxContext TaxEvaluationContext) []TaxRate {
	rates := make([]TaxRate, 0, len(taxContext.Lines))
	for _, line := range taxContext.Lines {
		rates = append(rates, TaxRate{
			Line:        line,
			PercentRate: p.PercentRate,
			Rate:        line.Amount.Mul(p.PercentRate),
		})
	}
	return rates
}

// TaxEvaluationContext carries the taxable lines derived from a cart or
// from candidate shipping/payment methods.
type TaxEvaluationContext struct {
	StoreID    string    `json:"storeId"`
	CustomerID string    `json:"customerId,omitempty"`
	Currency   string    `json:"currency"`
	Address    *Address  `json:"address,omitempty"`
	Lines      []TaxLine `json:"lines"`
}

// TaxLine is one taxable amount, keyed by the entity it was built from.
type TaxLine struct {
	ID       string          `json:"id"`
	Code     string          `json:"code,omitempty"`
	Name     string          `json:"name,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// RateByLine returns the rate computed for the given line id, or nil.
func RateByLine(rates []TaxRate, lineID string) *TaxRate {
	for i := range rates {
		if rates[i].Line.ID == lineID {
			return &rates[i]
		}
	}
	return nil
}

// TaxRate is a provider result for one tax line.
type TaxRate struct {
	Line        TaxLine         `json:"line"`
	Rate        decimal.Decimal `json:"rate"`
	PercentRate decimal.Decimal `json:"percentRate"`
}

// Promotion reward kinds.
const (
	RewardKindCatalogItem  = "catalog_item"
	RewardKindCartSubtotal = "cart_subtotal"
	RewardKindShipment     = "shipment"
	RewardKindPayment      = "payment"
)

// PromotionReward is one applicable discount produced by the promotion
// evaluator. Absolute rewards carry Amount; percent rewards carry
// AmountPercent with an optional MaxLimit cap.
type PromotionReward struct {
	PromotionID        string          `json:"promotionId"`
	Name               string          `json:"name,omitempty"`
	Kind               string          `json:"kind"`
	IsValid            bool            `json:"isValid"`
	Coupon             string          `json:"coupon,omitempty"`
	LineItemID         string          `json:"lineItemId,omitempty"`
	ProductID          string          `json:"productId,omitempty"`
	ShipmentMethodCode string          `json:"shipmentMethodCode,omitempty"`
	PaymentMethodCode  string          `json:"paymentMethodCode,omitempty"`
	IsPercent          bool            `json:"isPercent"`
	Amount             decimal.Decimal `json:"amount"`
	AmountPercent      decimal.Decimal `json:"amountPercent"`
	MaxLimit           decimal.Decimal `json:"maxLimit"`
}

// Discount resolves the reward's money value for the given base amount,
// applying the percent cap when configured.
func (r PromotionReward) Discount(base decimal.Decimal) decimal.Decimal {
	if !r.IsPercent {
		return r.Amount
	}
	discount := base.Mul(r.AmountPercent)
	if r.MaxLimit.IsPositive() && discount.GreaterThan(r.MaxLimit) {
		discount = r.MaxLimit
	}
	return discount
}

// PromotionEvaluationContext is the evaluator input built from the whole
// aggregate state.
type PromotionEvaluationContext struct {
	StoreID       string          `json:"storeId"`
	CustomerID    string          `json:"customerId,omitempty"`
	Currency      string          `json:"currency"`
	Language      string          `json:"language,omitempty"`
	Coupons       []string        `json:"coupons,omitempty"`
	CartSubTotal  decimal.Decimal `json:"cartSubTotal"`
	PromoEntries  []PromoEntry    `json:"promoEntries,omitempty"`
	ShipmentCodes []string        `json:"shipmentCodes,omitempty"`
	PaymentCodes  []string        `json:"paymentCodes,omitempty"`
}

// PromoEntry is the per-item slice of the promotion context.
type PromoEntry struct {
	LineItemID string          `json:"lineItemId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}
