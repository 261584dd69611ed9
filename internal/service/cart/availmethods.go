package cart

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

// availMethodsTake bounds the method search page size.
const availMethodsTake = 20

// AvailMethods resolves the shipping/payment candidates for a cart,
// annotated with promotion rewards and tax rates. Both pipelines are
// side-effect-free on the cart and must be re-run, never cached across
// mutations, when attachment needs to validate against current options.
type AvailMethods struct {
	shippingSearch ShippingMethodSearch
	paymentSearch  PaymentMethodSearch
	taxSearch      TaxProviderSearch
	promotions     PromotionEvaluator
}

// NewAvailMethods builds the resolver over its collaborators.
func NewAvailMethods(shippingSearch ShippingMethodSearch, paymentSearch PaymentMethodSearch, taxSearch TaxProviderSearch, promotions PromotionEvaluator) *AvailMethods {
	return &AvailMethods{
		shippingSearch: shippingSearch,
		paymentSearch:  paymentSearch,
		taxSearch:      taxSearch,
		promotions:     promotions,
	}
}

// GetAvailableShippingRates searches the store's active shipping methods,
// computes each method's rates for the cart, drops rates whose method has
// since become inactive, then applies promotion rewards and tax rates to
// every candidate. No configured methods yields an empty slice, never an
// error.
func (s *AvailMethods) GetAvailableShippingRates(ctx context.Context, aggregate *Aggregate) ([]domain.ShippingRate, error) {
	cart := aggregate.Cart()
	if cart == nil {
		return nil, domain.ErrCartNotLoaded
	}

	methods, err := s.shippingSearch.Search(ctx, MethodSearchCriteria{
		StoreID:  cart.StoreID,
		IsActive: true,
		Take:     availMethodsTake,
	})
	if err != nil {
		return nil, fmt.Errorf("search shipping methods: %w", err)
	}

	itemCount := 0
	for _, item := range cart.Items {
		itemCount += item.Quantity
	}

	var rates []domain.ShippingRate
	for _, method := range methods {
		for _, rate := range method.CalculateRates(itemCount) {
			if !rate.Method.IsActive {
				continue
			}
			rates = append(rates, rate)
		}
	}
	if len(rates) == 0 {
		return []domain.ShippingRate{}, nil
	}

	rewards, err := aggregate.EvaluatePromotions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		rates[i].DiscountAmount = shipmentRewardDiscount(rewards, rates[i])
	}

	provider, err := aggregate.activeTaxProvider(ctx)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		taxContext := domain.TaxEvaluationContext{
			StoreID:  cart.StoreID,
			Currency: cart.Currency,
		}
		for i := range rates {
			taxContext.Lines = append(taxContext.Lines, domain.TaxLine{
				ID:     rateLineID(i),
				Code:   rates[i].Method.Code,
				Amount: rates[i].Rate.Sub(rates[i].DiscountAmount),
			})
		}
		taxRates := provider.CalculateRates(taxContext)
		for i := range rates {
			if taxRate := domain.RateByLine(taxRates, rateLineID(i)); taxRate != nil {
				rates[i].RateWithTax = rates[i].Rate.Add(taxRate.Rate)
			}
		}
	}

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Method.Priority < rates[j].Method.Priority
	})
	return rates, nil
}

// GetAvailablePaymentMethods is the symmetric pipeline for payment
// gateways, ranked by method priority.
func (s *AvailMethods) GetAvailablePaymentMethods(ctx context.Context, aggregate *Aggregate) ([]domain.PaymentMethod, error) {
	cart := aggregate.Cart()
	if cart == nil {
		return nil, domain.ErrCartNotLoaded
	}

	methods, err := s.paymentSearch.Search(ctx, MethodSearchCriteria{
		StoreID:  cart.StoreID,
		IsActive: true,
		Take:     availMethodsTake,
	})
	if err != nil {
		return nil, fmt.Errorf("search payment methods: %w", err)
	}
	if len(methods) == 0 {
		return []domain.PaymentMethod{}, nil
	}

	rewards, err := aggregate.EvaluatePromotions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		methods[i].DiscountAmount = paymentRewardDiscount(rewards, methods[i])
	}

	provider, err := aggregate.activeTaxProvider(ctx)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		taxContext := domain.TaxEvaluationContext{
			StoreID:  cart.StoreID,
			Currency: cart.Currency,
		}
		for _, method := range methods {
			taxContext.Lines = append(taxContext.Lines, domain.TaxLine{
				ID:     method.ID,
				Code:   method.Code,
				Amount: method.Price.Sub(method.DiscountAmount),
			})
		}
		taxRates := provider.CalculateRates(taxContext)
		for i := range methods {
			if taxRate := domain.RateByLine(taxRates, methods[i].ID); taxRate != nil {
				methods[i].TaxPercentRate = taxRate.PercentRate
				methods[i].TaxTotal = taxRate.Rate
				methods[i].PriceWithTax = methods[i].Price.Add(taxRate.Rate)
			}
		}
	}

	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Priority < methods[j].Priority
	})
	return methods, nil
}

func rateLineID(index int) string {
	return fmt.Sprintf("rate-%d", index)
}

func shipmentRewardDiscount(rewards []domain.PromotionReward, rate domain.ShippingRate) (discount decimal.Decimal) {
	for _, reward := range rewards {
		if !reward.IsValid || reward.Kind != domain.RewardKindShipment {
			continue
		}
		if reward.ShipmentMethodCode != "" && !strings.EqualFold(reward.ShipmentMethodCode, rate.Method.Code) {
			continue
		}
		discount = discount.Add(reward.Discount(rate.Rate))
	}
	return capDiscount(discount, rate.Rate)
}

func paymentRewardDiscount(rewards []domain.PromotionReward, method domain.PaymentMethod) (discount decimal.Decimal) {
	for _, reward := range rewards {
		if !reward.IsValid || reward.Kind != domain.RewardKindPayment {
			continue
		}
		if reward.PaymentMethodCode != "" && !strings.EqualFold(reward.PaymentMethodCode, method.Code) {
			continue
		}
		discount = discount.Add(reward.Discount(method.Price))
	}
	return capDiscount(discount, method.Price)
}
