package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

// RuleSet names a bundle of validation rules selected at validate/save
// time. Callers compose explicit values instead of parsing a string list.
type RuleSet string

const (
	// RuleSetDefault checks item-level business constraints.
	RuleSetDefault RuleSet = "default"
	// RuleSetStrict re-checks shipment and payment selections against the
	// currently available options.
	RuleSetStrict RuleSet = "strict"
)

// Rule is one validation policy. Clears names the failure kinds the rule
// owns: Validate removes exactly those from the cart before appending the
// rule's fresh failures, which keeps repeated validation stable without
// touching failures recorded by unrelated rules.
type Rule interface {
	Name() string
	RuleSet() RuleSet
	Clears() []string
	Validate(ctx context.Context, aggregate *Aggregate) ([]domain.ValidationFailure, error)
}

// Validator runs the configured rules for the requested rule sets.
type Validator struct {
	rules []Rule
}

// NewValidator returns a validator with the stock rule configuration.
func NewValidator(extra ...Rule) *Validator {
	rules := []Rule{itemRule{}, shipmentRule{}, paymentRule{}}
	return &Validator{rules: append(rules, extra...)}
}

// Validate appends failures from every rule in the selected sets onto the
// cart's failure list.
func (v *Validator) Validate(ctx context.Context, aggregate *Aggregate, ruleSets ...RuleSet) error {
	selected := map[RuleSet]bool{}
	for _, ruleSet := range ruleSets {
		selected[ruleSet] = true
	}
	cart := aggregate.Cart()
	for _, rule := range v.rules {
		if !selected[rule.RuleSet()] {
			continue
		}
		failures, err := rule.Validate(ctx, aggregate)
		if err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		cart.Failures = removeFailureKinds(cart.Failures, rule.Clears())
		cart.Failures = append(cart.Failures, failures...)
	}
	return nil
}

// StrictKinds returns the failure kinds owned by strict rules; failures of
// these kinds block persistence.
func (v *Validator) StrictKinds() map[string]bool {
	kinds := map[string]bool{}
	for _, rule := range v.rules {
		if rule.RuleSet() != RuleSetStrict {
			continue
		}
		for _, kind := range rule.Clears() {
			kinds[kind] = true
		}
	}
	return kinds
}

func removeFailureKinds(failures []domain.ValidationFailure, kinds []string) []domain.ValidationFailure {
	owned := map[string]bool{}
	for _, kind := range kinds {
		owned[kind] = true
	}
	kept := failures[:0]
	for _, failure := range failures {
		if !owned[failure.Kind] {
			kept = append(kept, failure)
		}
	}
	return kept
}

// itemRule checks every non-read-only line item against its product
// snapshot entry.
type itemRule struct{}

func (itemRule) Name() string     { return "items" }
func (itemRule) RuleSet() RuleSet { return RuleSetDefault }
func (itemRule) Clears() []string {
	return []string{
		domain.FailureKindProductUnavailable,
		domain.FailureKindProductUnbuyable,
		domain.FailureKindQuantityInvalid,
		domain.FailureKindQuantityInsufficient,
		domain.FailureKindPriceChanged,
	}
}

func (itemRule) Validate(_ context.Context, aggregate *Aggregate) ([]domain.ValidationFailure, error) {
	var failures []domain.ValidationFailure
	for _, item := range aggregate.Cart().Items {
		if item.IsReadOnly {
			continue
		}
		if item.Quantity < 1 {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindQuantityInvalid,
				Field:   "quantity",
				Message: fmt.Sprintf("line item %s quantity must be positive", item.ID),
			})
		}
		product, ok := aggregate.ProductByID(item.ProductID)
		if !ok || !product.IsAvailable {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindProductUnavailable,
				Field:   "productId",
				Message: fmt.Sprintf("product %s is no longer available", item.ProductID),
			})
			continue
		}
		if !product.IsBuyable {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindProductUnbuyable,
				Field:   "productId",
				Message: fmt.Sprintf("product %s cannot be purchased", item.ProductID),
			})
		}
		if product.InStock < int64(item.Quantity) {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindQuantityInsufficient,
				Field:   "quantity",
				Message: fmt.Sprintf("only %d of product %s in stock", product.InStock, item.ProductID),
			})
		}
		if current := product.PriceForQuantity(item.Quantity); !current.Equal(item.SalePrice) {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindPriceChanged,
				Field:   "salePrice",
				Message: fmt.Sprintf("price of product %s changed from %s to %s", item.ProductID, item.SalePrice, current),
			})
		}
	}
	return failures, nil
}

// shipmentRule re-checks every shipment selection against the currently
// available shipping rates.
type shipmentRule struct{}

func (shipmentRule) Name() string     { return "shipments" }
func (shipmentRule) RuleSet() RuleSet { return RuleSetStrict }
func (shipmentRule) Clears() []string {
	return []string{domain.FailureKindShipmentUnavailable, domain.FailureKindShipmentPriceChanged}
}

func (shipmentRule) Validate(ctx context.Context, aggregate *Aggregate) ([]domain.ValidationFailure, error) {
	cart := aggregate.Cart()
	withMethod := false
	for _, shipment := range cart.Shipments {
		if shipment.MethodCode != "" {
			withMethod = true
			break
		}
	}
	if !withMethod {
		return nil, nil
	}

	rates, err := aggregate.GetAvailableShippingRates(ctx)
	if err != nil {
		return nil, err
	}
	var failures []domain.ValidationFailure
	for _, shipment := range cart.Shipments {
		if shipment.MethodCode == "" {
			continue
		}
		var matched *domain.ShippingRate
		for i := range rates {
			if shipment.HasSameMethod(rates[i]) {
				matched = &rates[i]
				break
			}
		}
		switch {
		case matched == nil:
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindShipmentUnavailable,
				Field:   "methodCode",
				Message: fmt.Sprintf("shipping method %s is no longer available", shipment.MethodCode),
			})
		case !matched.Rate.Equal(shipment.Price):
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindShipmentPriceChanged,
				Field:   "price",
				Message: fmt.Sprintf("shipping method %s price changed from %s to %s", shipment.MethodCode, shipment.Price, matched.Rate),
			})
		}
	}
	return failures, nil
}

// paymentRule re-checks every payment gateway selection against the
// currently available payment methods.
type paymentRule struct{}

func (paymentRule) Name() string     { return "payments" }
func (paymentRule) RuleSet() RuleSet { return RuleSetStrict }
func (paymentRule) Clears() []string {
	return []string{domain.FailureKindPaymentUnavailable}
}

func (paymentRule) Validate(ctx context.Context, aggregate *Aggregate) ([]domain.ValidationFailure, error) {
	cart := aggregate.Cart()
	withGateway := false
	for _, payment := range cart.Payments {
		if payment.GatewayCode != "" {
			withGateway = true
			break
		}
	}
	if !withGateway {
		return nil, nil
	}

	methods, err := aggregate.GetAvailablePaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	var failures []domain.ValidationFailure
	for _, payment := range cart.Payments {
		if payment.GatewayCode == "" {
			continue
		}
		found := false
		for _, method := range methods {
			if strings.EqualFold(method.Code, payment.GatewayCode) {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, domain.ValidationFailure{
				Kind:    domain.FailureKindPaymentUnavailable,
				Field:   "gatewayCode",
				Message: fmt.Sprintf("payment method %s is no longer available", payment.GatewayCode),
			})
		}
	}
	return failures, nil
}

// StrictFailures returns the recorded failures owned by strict rules.
// These are the failures that block persistence.
func (a *Aggregate) StrictFailures() []domain.ValidationFailure {
	if a.cart == nil {
		return nil
	}
	kinds := a.validator.StrictKinds()
	var blocking []domain.ValidationFailure
	for _, failure := range a.cart.Failures {
		if kinds[failure.Kind] {
			blocking = append(blocking, failure)
		}
	}
	return blocking
}

// ValidationError rejects a mutation whose input violates business rules.
// It carries failure values instead of hiding them in a message.
type ValidationError struct {
	Failures []domain.ValidationFailure
}

func (e *ValidationError) Error() string {
	if len(e.Failures) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		messages = append(messages, failure.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// validateNewItem guards AddItem input before the line item is created.
func validateNewItem(in NewItem, product domain.CartProduct, ruleSets []RuleSet) error {
	var failures []domain.ValidationFailure
	if in.Quantity < 1 {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindQuantityInvalid,
			Field:   "quantity",
			Message: "quantity must be positive",
		})
	}
	if !product.IsAvailable {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindProductUnavailable,
			Field:   "productId",
			Message: fmt.Sprintf("product %s is not available", in.ProductID),
		})
	}
	if !product.IsBuyable {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindProductUnbuyable,
			Field:   "productId",
			Message: fmt.Sprintf("product %s cannot be purchased", in.ProductID),
		})
	}
	if hasRuleSet(ruleSets, RuleSetStrict) && product.InStock < int64(in.Quantity) {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindQuantityInsufficient,
			Field:   "quantity",
			Message: fmt.Sprintf("only %d of product %s in stock", product.InStock, in.ProductID),
		})
	}
	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}

// validatePriceChange guards ChangeItemPrice: prices are never negative,
// and under strict rules a manual price may only move upward.
func validatePriceChange(item *domain.LineItem, newPrice decimal.Decimal, ruleSets []RuleSet) error {
	var failures []domain.ValidationFailure
	if newPrice.IsNegative() {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindPriceChanged,
			Field:   "price",
			Message: "price must not be negative",
		})
	}
	if hasRuleSet(ruleSets, RuleSetStrict) && newPrice.LessThan(item.SalePrice) {
		failures = append(failures, domain.ValidationFailure{
			Kind:    domain.FailureKindPriceChanged,
			Field:   "price",
			Message: fmt.Sprintf("new price %s must not be lower than the current price %s", newPrice, item.SalePrice),
		})
	}
	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}

func hasRuleSet(ruleSets []RuleSet, target RuleSet) bool {
	for _, ruleSet := range ruleSets {
		if ruleSet == target {
			return true
		}
	}
	return false
}
