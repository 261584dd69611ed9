package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

// discountPlan is the scratch result of folding promotion rewards over the
// cart. It is computed before any collaborator call that may still fail
// and only written back once the whole recalculation pass succeeded.
type discountPlan struct {
	items     map[string]decimal.Decimal
	shipments map[string]decimal.Decimal
	payments  map[string]decimal.Decimal
	cart      decimal.Decimal
}

func buildDiscountPlan(cart *domain.Cart, rewards []domain.PromotionReward) *discountPlan {
	plan := &discountPlan{
		items:     map[string]decimal.Decimal{},
		shipments: map[string]decimal.Decimal{},
		payments:  map[string]decimal.Decimal{},
		cart:      decimal.Zero,
	}
	for _, reward := range rewards {
		if !reward.IsValid {
			continue
		}
		switch reward.Kind {
		case domain.RewardKindCatalogItem:
			for _, item := range cart.Items {
				if !rewardMatchesItem(reward, item) {
					continue
				}
				base := item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
				plan.items[item.ID] = plan.items[item.ID].Add(reward.Discount(base))
			}
		case domain.RewardKindCartSubtotal:
			plan.cart = plan.cart.Add(reward.Discount(grossSubTotal(cart)))
		case domain.RewardKindShipment:
			for _, shipment := range cart.Shipments {
				if reward.ShipmentMethodCode != "" && !strings.EqualFold(reward.ShipmentMethodCode, shipment.MethodCode) {
					continue
				}
				plan.shipments[shipment.ID] = plan.shipments[shipment.ID].Add(reward.Discount(shipment.Price))
			}
		case domain.RewardKindPayment:
			for _, payment := range cart.Payments {
				if reward.PaymentMethodCode != "" && !strings.EqualFold(reward.PaymentMethodCode, payment.GatewayCode) {
					continue
				}
				plan.payments[payment.ID] = plan.payments[payment.ID].Add(reward.Discount(payment.Price))
			}
		}
	}
	return plan
}

func rewardMatchesItem(reward domain.PromotionReward, item domain.LineItem) bool {
	if reward.LineItemID != "" {
		return reward.LineItemID == item.ID
	}
	if reward.ProductID != "" {
		return reward.ProductID == item.ProductID
	}
	return false
}

// apply writes the computed discounts onto the cart, capped so no entity
// is ever discounted below zero.
func (p *discountPlan) apply(cart *domain.Cart) {
	for i := range cart.Items {
		item := &cart.Items[i]
		base := item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.DiscountAmount = capDiscount(p.items[item.ID], base)
	}
	for i := range cart.Shipments {
		shipment := &cart.Shipments[i]
		shipment.DiscountAmount = capDiscount(p.shipments[shipment.ID], shipment.Price)
	}
	for i := range cart.Payments {
		payment := &cart.Payments[i]
		payment.DiscountAmount = capDiscount(p.payments[payment.ID], payment.Price)
	}
	cart.DiscountAmount = capDiscount(p.cart, grossSubTotal(cart))
}

func capDiscount(discount, base decimal.Decimal) decimal.Decimal {
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if discount.GreaterThan(base) {
		return base
	}
	return discount
}

// applyTaxRates merges provider results back into the cart and rebuilds
// the applied tax-detail lines.
func applyTaxRates(cart *domain.Cart, providerName string, rates []domain.TaxRate) {
	taxSum := decimal.Zero
	percentRate := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		if rate := domain.RateByLine(rates, item.ID); rate != nil {
			item.TaxPercentRate = rate.PercentRate
			item.TaxTotal = rate.Rate
			taxSum = taxSum.Add(rate.Rate)
			percentRate = rate.PercentRate
		}
	}
	for i := range cart.Shipments {
		shipment := &cart.Shipments[i]
		if rate := domain.RateByLine(rates, shipment.ID); rate != nil {
			shipment.TaxPercentRate = rate.PercentRate
			shipment.TaxTotal = rate.Rate
			taxSum = taxSum.Add(rate.Rate)
			percentRate = rate.PercentRate
		}
	}
	for i := range cart.Payments {
		payment := &cart.Payments[i]
		if rate := domain.RateByLine(rates, payment.ID); rate != nil {
			payment.TaxPercentRate = rate.PercentRate
			payment.TaxTotal = rate.Rate
			taxSum = taxSum.Add(rate.Rate)
			percentRate = rate.PercentRate
		}
	}

	cart.TaxDetails = nil
	if len(rates) > 0 {
		cart.TaxDetails = []domain.TaxDetail{{
			Name:   providerName,
			Rate:   percentRate,
			Amount: taxSum,
		}}
	}
}
