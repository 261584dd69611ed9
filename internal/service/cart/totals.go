package cart

import (
	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

// DefaultTotals folds line item, shipment and payment amounts, discounts
// and applied tax into the cart's total set. Component sums are rounded to
// the currency's decimal digits at the end of each component; tier prices
// and percent rates keep full precision mid-flight.
type DefaultTotals struct{}

// NewDefaultTotals returns the stock totals calculator.
func NewDefaultTotals() *DefaultTotals {
	return &DefaultTotals{}
}

// CalculateTotals computes the full total set described by CartTotals.
// The grand total adds gross shipping and payment amounts, since their
// discounts are already folded into the discount total.
func (c *DefaultTotals) CalculateTotals(cart *domain.Cart, currency domain.Currency) {
	subTotal := decimal.Zero
	itemDiscounts := decimal.Zero
	itemTax := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		qty := decimal.NewFromInt(int64(item.Quantity))
		listDiscount := item.ListPrice.Sub(item.SalePrice).Mul(qty)

		item.ExtendedPrice = item.SalePrice.Mul(qty).Sub(item.DiscountAmount)
		item.PlacedPrice = item.SalePrice
		if item.Quantity > 0 {
			item.PlacedPrice = item.SalePrice.Sub(item.DiscountAmount.Div(qty))
		}

		subTotal = subTotal.Add(item.ListPrice.Mul(qty))
		itemDiscounts = itemDiscounts.Add(listDiscount).Add(item.DiscountAmount)
		itemTax = itemTax.Add(item.TaxTotal)
	}

	shippingGross := decimal.Zero
	shippingDiscounts := decimal.Zero
	shippingTax := decimal.Zero
	handling := decimal.Zero
	for i := range cart.Shipments {
		shipment := &cart.Shipments[i]
		shippingGross = shippingGross.Add(shipment.Price)
		shippingDiscounts = shippingDiscounts.Add(shipment.DiscountAmount)
		shippingTax = shippingTax.Add(shipment.TaxTotal)
		handling = handling.Add(shipment.Fee)
		shipment.PriceWithTax = currency.Round(shipment.Price.Sub(shipment.DiscountAmount).Add(shipment.TaxTotal))
	}

	paymentGross := decimal.Zero
	paymentDiscounts := decimal.Zero
	paymentTax := decimal.Zero
	for i := range cart.Payments {
		payment := &cart.Payments[i]
		paymentGross = paymentGross.Add(payment.Price)
		paymentDiscounts = paymentDiscounts.Add(payment.DiscountAmount)
		paymentTax = paymentTax.Add(payment.TaxTotal)
		payment.PriceWithTax = currency.Round(payment.Price.Sub(payment.DiscountAmount).Add(payment.TaxTotal))
	}

	discountTotal := itemDiscounts.Add(cart.DiscountAmount).Add(shippingDiscounts).Add(paymentDiscounts)
	taxTotal := itemTax.Add(shippingTax).Add(paymentTax)

	totals := domain.CartTotals{
		SubTotal:             currency.Round(subTotal),
		SubTotalWithTax:      currency.Round(subTotal.Add(itemTax)),
		ShippingTotal:        currency.Round(shippingGross.Sub(shippingDiscounts)),
		ShippingTotalWithTax: currency.Round(shippingGross.Sub(shippingDiscounts).Add(shippingTax)),
		PaymentTotal:         currency.Round(paymentGross.Sub(paymentDiscounts)),
		PaymentTotalWithTax:  currency.Round(paymentGross.Sub(paymentDiscounts).Add(paymentTax)),
		HandlingTotal:        currency.Round(handling),
		HandlingTotalWithTax: currency.Round(handling),
		DiscountTotal:        currency.Round(discountTotal),
		DiscountTotalWithTax: currency.Round(discountTotal),
		TaxTotal:             currency.Round(taxTotal),
	}
	totals.Total = currency.Round(subTotal.
		Add(shippingGross).
		Add(paymentGross).
		Add(handling).
		Sub(discountTotal).
		Add(taxTotal))
	cart.Totals = totals
}
