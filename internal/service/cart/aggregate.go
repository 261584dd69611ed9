package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

// ProductService loads cart product snapshots in one batch. Missing ids
// are simply absent from the result, not an error.
type ProductService interface {
	GetCartProducts(ctx context.Context, cart *domain.Cart, productIDs []string) (map[string]domain.CartProduct, error)
}

// PromotionEvaluator computes applicable rewards for a cart context.
type PromotionEvaluator interface {
	Evaluate(ctx context.Context, evalContext domain.PromotionEvaluationContext) ([]domain.PromotionReward, error)
}

// TaxProviderSearch finds tax providers configured for the given stores.
type TaxProviderSearch interface {
	FindProviders(ctx context.Context, storeIDs []string) ([]domain.TaxProvider, error)
}

// MethodSearchCriteria scopes shipping/payment method searches.
type MethodSearchCriteria struct {
	StoreID  string
	IsActive bool
	Take     int
}

// ShippingMethodSearch finds configured shipping methods.
type ShippingMethodSearch interface {
	Search(ctx context.Context, criteria MethodSearchCriteria) ([]domain.ShippingMethod, error)
}

// PaymentMethodSearch finds configured payment methods.
type PaymentMethodSearch interface {
	Search(ctx context.Context, criteria MethodSearchCriteria) ([]domain.PaymentMethod, error)
}

// TotalsCalculator folds item/shipment/payment amounts, discounts and tax
// into the cart's total set.
type TotalsCalculator interface {
	CalculateTotals(cart *domain.Cart, currency domain.Currency)
}

// Deps bundles the collaborators an aggregate is polymorphic over.
type Deps struct {
	Products        ProductService
	Promotions      PromotionEvaluator
	TaxProviders    TaxProviderSearch
	ShippingMethods ShippingMethodSearch
	PaymentMethods  PaymentMethodSearch
	Totals          TotalsCalculator
}

// Aggregate is the cart consistency boundary. Every mutation requires a
// loaded cart, applies its structural change and unconditionally
// recalculates before returning, so totals never lag the cart state.
type Aggregate struct {
	deps      Deps
	avail     *AvailMethods
	validator *Validator

	cart     *domain.Cart
	store    domain.Store
	member   *domain.Member
	currency domain.Currency
	products map[string]domain.CartProduct
	ruleSets []RuleSet
}

// NewAggregate builds an empty aggregate over the collaborator bundle.
// A cart must be taken with Take before any mutation.
func NewAggregate(deps Deps) *Aggregate {
	return &Aggregate{
		deps:      deps,
		avail:     NewAvailMethods(deps.ShippingMethods, deps.PaymentMethods, deps.TaxProviders, deps.Promotions),
		validator: NewValidator(),
		products:  map[string]domain.CartProduct{},
		ruleSets:  []RuleSet{RuleSetDefault, RuleSetStrict},
	}
}

// NewItem is the AddItem request.
type NewItem struct {
	ProductID         string
	Quantity          int
	Price             *decimal.Decimal
	Comment           string
	DynamicProperties map[string]string
}

// Take loads the cart with its store/member/currency context into the
// aggregate, loads the product snapshot for all current line items in one
// batch and recalculates.
func (a *Aggregate) Take(ctx context.Context, cart *domain.Cart, store domain.Store, member *domain.Member, currency domain.Currency) (*Aggregate, error) {
	if cart == nil {
		return nil, domain.ErrCartNotLoaded
	}
	a.cart = cart
	a.store = store
	a.member = member
	a.currency = currency

	if len(cart.Items) > 0 {
		ids := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := a.deps.Products.GetCartProducts(ctx, cart, ids)
		if err != nil {
			return nil, fmt.Errorf("load cart products: %w", err)
		}
		a.products = products
	}
	return a.Recalculate(ctx)
}

// Cart returns the backing cart record, or nil before Take.
func (a *Aggregate) Cart() *domain.Cart { return a.cart }

// Store returns the cart's store context.
func (a *Aggregate) Store() domain.Store { return a.store }

// Member returns the resolved customer, or nil for anonymous carts.
func (a *Aggregate) Member() *domain.Member { return a.member }

// Currency returns the language-scoped cart currency.
func (a *Aggregate) Currency() domain.Currency { return a.currency }

// ProductByID looks up a snapshot entry. The second return distinguishes
// "not found" from a zero entry.
func (a *Aggregate) ProductByID(productID string) (domain.CartProduct, bool) {
	product, ok := a.products[productID]
	return product, ok
}

// SetRuleSets replaces the rule sets evaluated on each Validate call.
func (a *Aggregate) SetRuleSets(ruleSets ...RuleSet) {
	a.ruleSets = ruleSets
}

// RuleSets returns the active validation rule sets.
func (a *Aggregate) RuleSets() []RuleSet { return a.ruleSets }

// UpdateComment replaces the cart's free-text comment.
func (a *Aggregate) UpdateComment(ctx context.Context, comment string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.cart.Comment = comment
	return a.Recalculate(ctx)
}

// AddItem adds a product to the cart. The product snapshot is fetched for
// the new item; an absent product fails with domain.ErrNotFound. Adding a
// product that is already in the cart increases the existing row's
// quantity by max(1, requested) instead of creating a duplicate.
func (a *Aggregate) AddItem(ctx context.Context, in NewItem) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	products, err := a.deps.Products.GetCartProducts(ctx, a.cart, []string{in.ProductID})
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", in.ProductID, err)
	}
	product, ok := products[in.ProductID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", in.ProductID, domain.ErrNotFound)
	}
	if err := validateNewItem(in, product, a.ruleSets); err != nil {
		return nil, err
	}
	a.products[product.ID] = product

	item := domain.LineItem{
		ID:                uuid.NewString(),
		ProductID:         product.ID,
		SKU:               product.SKU,
		Name:              product.Name,
		Quantity:          in.Quantity,
		ListPrice:         product.ListPrice,
		SalePrice:         product.PriceForQuantity(in.Quantity),
		Note:              in.Comment,
		DynamicProperties: in.DynamicProperties,
	}
	if in.Price != nil {
		item.ListPrice = *in.Price
		item.SalePrice = *in.Price
	}
	a.addLineItem(item)
	return a.Recalculate(ctx)
}

// ChangeItemPrice sets both list and sale price of a line item after the
// price-change rules pass. A missing item is a no-op.
func (a *Aggregate) ChangeItemPrice(ctx context.Context, lineItemID string, newPrice decimal.Decimal) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	if item := a.cart.ItemByID(lineItemID); item != nil {
		if err := validatePriceChange(item, newPrice, a.ruleSets); err != nil {
			return nil, err
		}
		item.ListPrice = newPrice
		item.SalePrice = newPrice
	}
	return a.Recalculate(ctx)
}

// ChangeItemQuantity re-derives the item's sale price from the tier table
// for the new quantity, keeps the list price at or above the sale price,
// and removes the item when the quantity drops to zero or below.
// Read-only items are left untouched.
func (a *Aggregate) ChangeItemQuantity(ctx context.Context, lineItemID string, newQuantity int) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.changeItemQuantity(a.cart.ItemByID(lineItemID), newQuantity)
	return a.Recalculate(ctx)
}

// ChangeItemComment replaces the line item note. A missing item is a no-op.
func (a *Aggregate) ChangeItemComment(ctx context.Context, lineItemID, comment string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	if item := a.cart.ItemByID(lineItemID); item != nil {
		item.Note = comment
	}
	return a.Recalculate(ctx)
}

// RemoveItem removes a line item by id. A missing item is a no-op.
func (a *Aggregate) RemoveItem(ctx context.Context, lineItemID string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.removeItem(lineItemID)
	return a.Recalculate(ctx)
}

// Clear removes all line items.
func (a *Aggregate) Clear(ctx context.Context) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.cart.Items = nil
	return a.Recalculate(ctx)
}

// AddCoupon applies a coupon code. The coupon set is case-insensitive and
// de-duplicated.
func (a *Aggregate) AddCoupon(ctx context.Context, code string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	if !a.cart.HasCoupon(code) {
		a.cart.Coupons = append(a.cart.Coupons, code)
	}
	return a.Recalculate(ctx)
}

// RemoveCoupon removes the given coupon, or all coupons when code is empty.
func (a *Aggregate) RemoveCoupon(ctx context.Context, code string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	if code == "" {
		a.cart.Coupons = nil
	} else {
		kept := a.cart.Coupons[:0]
		for _, coupon := range a.cart.Coupons {
			if !strings.EqualFold(coupon, code) {
				kept = append(kept, coupon)
			}
		}
		a.cart.Coupons = kept
	}
	return a.Recalculate(ctx)
}

// AddOrUpdateShipment attaches a shipment, replacing any previous shipment
// with the same identity. The delivery address storage key is cleared so a
// profile-owned address record is never shared between carts. On a
// persisted cart with a method code set, the price and discount are
// re-resolved from the currently available rates; a method+option pair no
// longer offered fails with an InvalidReferenceError.
func (a *Aggregate) AddOrUpdateShipment(ctx context.Context, shipment domain.Shipment) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}

	if shipment.MethodCode != "" && !a.cart.IsTransient() {
		rates, err := a.GetAvailableShippingRates(ctx)
		if err != nil {
			return nil, err
		}
		var matched *domain.ShippingRate
		for i := range rates {
			if shipment.HasSameMethod(rates[i]) {
				matched = &rates[i]
				break
			}
		}
		if matched == nil {
			return nil, domain.NewUnknownShippingMethodError(shipment.MethodCode, shipment.MethodOption)
		}
		shipment.Price = matched.Rate
		shipment.DiscountAmount = matched.DiscountAmount
	}

	a.removeShipment(shipment.ID)
	if shipment.ID == "" {
		shipment.ID = uuid.NewString()
	}
	shipment.Currency = a.cart.Currency
	if shipment.DeliveryAddress != nil {
		shipment.DeliveryAddress.Key = ""
	}
	a.cart.Shipments = append(a.cart.Shipments, shipment)
	return a.Recalculate(ctx)
}

// RemoveShipment removes a shipment by id. A missing shipment is a no-op.
func (a *Aggregate) RemoveShipment(ctx context.Context, shipmentID string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.removeShipment(shipmentID)
	return a.Recalculate(ctx)
}

// AddOrUpdatePayment attaches a payment, replacing any previous payment
// with the same identity, with the same billing-address key clearing rule
// as shipments. On a persisted cart a gateway code must be among the
// currently available payment methods, compared case-insensitively.
func (a *Aggregate) AddOrUpdatePayment(ctx context.Context, payment domain.Payment) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}

	if payment.GatewayCode != "" && !a.cart.IsTransient() {
		methods, err := a.GetAvailablePaymentMethods(ctx)
		if err != nil {
			return nil, err
		}
		found := false
		for _, method := range methods {
			if strings.EqualFold(method.Code, payment.GatewayCode) {
				found = true
				break
			}
		}
		if !found {
			return nil, domain.NewUnknownPaymentMethodError(payment.GatewayCode)
		}
	}

	a.removePayment(payment.ID)
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.Currency = a.cart.Currency
	if payment.BillingAddress != nil {
		payment.BillingAddress.Key = ""
	}
	a.cart.Payments = append(a.cart.Payments, payment)
	return a.Recalculate(ctx)
}

// RemovePayment removes a payment by id. A missing payment is a no-op.
func (a *Aggregate) RemovePayment(ctx context.Context, paymentID string) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	a.removePayment(paymentID)
	return a.Recalculate(ctx)
}

// MergeWithCart replays the other cart's items, coupons, shipments and
// payments through the normal mutation operations, so each passes the same
// validation and pricing re-derivation as a direct add. All persisted
// identities of the source are reset first to avoid key collisions.
func (a *Aggregate) MergeWithCart(ctx context.Context, other *domain.Cart) (*Aggregate, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	if other == nil {
		return a, nil
	}
	stripIdentities(other)

	for _, item := range other.Items {
		if _, err := a.AddItem(ctx, NewItem{
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			Comment:           item.Note,
			DynamicProperties: item.DynamicProperties,
		}); err != nil {
			return nil, err
		}
	}
	for _, coupon := range other.Coupons {
		if _, err := a.AddCoupon(ctx, coupon); err != nil {
			return nil, err
		}
	}
	for _, shipment := range other.Shipments {
		if _, err := a.AddOrUpdateShipment(ctx, shipment); err != nil {
			return nil, err
		}
	}
	for _, payment := range other.Payments {
		if _, err := a.AddOrUpdatePayment(ctx, payment); err != nil {
			return nil, err
		}
	}
	return a.Recalculate(ctx)
}

// GetAvailableShippingRates returns the ranked, promotion- and
// tax-annotated shipping candidates for this cart. Read-only on cart state.
func (a *Aggregate) GetAvailableShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	if err := a.ensureLoaded(); err != nil {
		return nil, err
	}
	return a.avail.GetAvailableShippingRates(ctx, a)
}

// GetAvailablePaymentMethods returns the annotated payment candidates for
// this cart. Read-only on cart state.
func (a *Aggregate) GetAvailablePaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	if err := a.ensureLoaded(); err != nil {
		return nil, err
	}
	return a.avail.GetAvailablePaymentMethods(ctx, a)
}

// Validate runs the given rule sets (or the aggregate's active sets when
// none are passed) and appends the resulting failures to the cart. Each
// rule clears exactly the failure kinds it owns before appending, so
// repeated validation of an unchanged cart is stable.
func (a *Aggregate) Validate(ctx context.Context, ruleSets ...RuleSet) (*Aggregate, error) {
	if err := a.ensureLoaded(); err != nil {
		return nil, err
	}
	if len(ruleSets) == 0 {
		ruleSets = a.ruleSets
	}
	if err := a.validator.Validate(ctx, a, ruleSets...); err != nil {
		return nil, err
	}
	return a, nil
}

// Recalculate re-derives all money-dependent cart state in fixed order:
// promotions, then taxes over the discounted amounts, then totals. A
// collaborator failure aborts the pass before anything is written back,
// leaving the prior totals as the last known-good state.
func (a *Aggregate) Recalculate(ctx context.Context) (*Aggregate, error) {
	if err := a.ensureLoaded(); err != nil {
		return nil, err
	}

	rewards, evaluated, err := a.evaluatePromotions(ctx)
	if err != nil {
		return nil, err
	}
	var plan *discountPlan
	if evaluated {
		plan = buildDiscountPlan(a.cart, rewards)
	}

	provider, err := a.activeTaxProvider(ctx)
	if err != nil {
		return nil, err
	}
	var taxRates []domain.TaxRate
	var providerName string
	if provider != nil {
		taxRates = provider.CalculateRates(a.cartTaxContext(plan))
		providerName = provider.Name
	}

	// All collaborator calls succeeded; write back in one pass.
	if plan != nil {
		plan.apply(a.cart)
	}
	if provider != nil {
		applyTaxRates(a.cart, providerName, taxRates)
	}
	a.deps.Totals.CalculateTotals(a.cart, a.currency)
	return a, nil
}

// EvaluatePromotions builds the promotion context from the whole aggregate
// and asks the evaluator. Exposed for the available-methods pipelines.
func (a *Aggregate) EvaluatePromotions(ctx context.Context) ([]domain.PromotionReward, error) {
	rewards, _, err := a.evaluatePromotions(ctx)
	return rewards, err
}

// evaluatePromotions returns the rewards and whether evaluation ran at
// all. Carts holding any read-only item were finalized elsewhere and their
// economics are never re-derived.
func (a *Aggregate) evaluatePromotions(ctx context.Context) ([]domain.PromotionReward, bool, error) {
	for _, item := range a.cart.Items {
		if item.IsReadOnly {
			return nil, false, nil
		}
	}
	rewards, err := a.deps.Promotions.Evaluate(ctx, a.promotionContext())
	if err != nil {
		return nil, false, fmt.Errorf("evaluate promotions: %w", err)
	}
	return rewards, true, nil
}

func (a *Aggregate) promotionContext() domain.PromotionEvaluationContext {
	evalContext := domain.PromotionEvaluationContext{
		StoreID:      a.cart.StoreID,
		CustomerID:   a.cart.CustomerID,
		Currency:     a.cart.Currency,
		Language:     a.cart.LanguageCode,
		Coupons:      a.cart.Coupons,
		CartSubTotal: grossSubTotal(a.cart),
	}
	for _, item := range a.cart.Items {
		evalContext.PromoEntries = append(evalContext.PromoEntries, domain.PromoEntry{
			LineItemID: item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.SalePrice,
		})
	}
	for _, shipment := range a.cart.Shipments {
		evalContext.ShipmentCodes = append(evalContext.ShipmentCodes, shipment.MethodCode)
	}
	for _, payment := range a.cart.Payments {
		evalContext.PaymentCodes = append(evalContext.PaymentCodes, payment.GatewayCode)
	}
	return evalContext
}

// activeTaxProvider returns the first provider flagged active for the
// cart's store, nil when none is configured or the store disables tax
// calculation.
func (a *Aggregate) activeTaxProvider(ctx context.Context) (*domain.TaxProvider, error) {
	if !a.store.TaxCalculationEnabled {
		return nil, nil
	}
	providers, err := a.deps.TaxProviders.FindProviders(ctx, []string{a.cart.StoreID})
	if err != nil {
		return nil, fmt.Errorf("find tax providers: %w", err)
	}
	for i := range providers {
		if providers[i].IsActive {
			return &providers[i], nil
		}
	}
	return nil, nil
}

// cartTaxContext derives taxable lines for items, shipments and payments,
// net of the discounts the current pass computed (or the stored discounts
// when promotions were skipped).
func (a *Aggregate) cartTaxContext(plan *discountPlan) domain.TaxEvaluationContext {
	taxContext := domain.TaxEvaluationContext{
		StoreID:    a.cart.StoreID,
		CustomerID: a.cart.CustomerID,
		Currency:   a.cart.Currency,
	}
	for i := range a.cart.Shipments {
		if a.cart.Shipments[i].DeliveryAddress != nil {
			taxContext.Address = a.cart.Shipments[i].DeliveryAddress
			break
		}
	}
	for _, item := range a.cart.Items {
		discount := item.DiscountAmount
		if plan != nil {
			discount = plan.items[item.ID]
		}
		amount := item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(discount)
		taxContext.Lines = append(taxContext.Lines, domain.TaxLine{
			ID:       item.ID,
			Code:     item.SKU,
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   amount,
		})
	}
	for _, shipment := range a.cart.Shipments {
		discount := shipment.DiscountAmount
		if plan != nil {
			discount = plan.shipments[shipment.ID]
		}
		taxContext.Lines = append(taxContext.Lines, domain.TaxLine{
			ID:     shipment.ID,
			Code:   shipment.MethodCode,
			Name:   shipment.MethodCode,
			Amount: shipment.Price.Sub(discount),
		})
	}
	for _, payment := range a.cart.Payments {
		discount := payment.DiscountAmount
		if plan != nil {
			discount = plan.payments[payment.ID]
		}
		taxContext.Lines = append(taxContext.Lines, domain.TaxLine{
			ID:     payment.ID,
			Code:   payment.GatewayCode,
			Name:   payment.GatewayCode,
			Amount: payment.Price.Sub(discount),
		})
	}
	return taxContext
}

func (a *Aggregate) addLineItem(item domain.LineItem) {
	if existing := a.cart.ItemByProduct(item.ProductID); existing != nil {
		added := item.Quantity
		if added < 1 {
			added = 1
		}
		a.changeItemQuantity(existing, existing.Quantity+added)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	a.cart.Items = append(a.cart.Items, item)
}

// changeItemQuantity re-derives the sale price from the tier table when a
// snapshot entry is known. The tier price only overwrites when non-zero,
// and the list price is raised to the sale price when it would fall below
// it, which would otherwise break totals calculation.
func (a *Aggregate) changeItemQuantity(item *domain.LineItem, quantity int) {
	if item == nil || item.IsReadOnly {
		return
	}
	if product, ok := a.products[item.ProductID]; ok {
		salePrice := product.PriceForQuantity(quantity)
		if !salePrice.IsZero() {
			item.SalePrice = salePrice
		}
		if item.ListPrice.LessThan(item.SalePrice) {
			item.ListPrice = item.SalePrice
		}
	}
	if quantity > 0 {
		item.Quantity = quantity
	} else {
		a.removeItem(item.ID)
	}
}

func (a *Aggregate) removeItem(lineItemID string) {
	for i := range a.cart.Items {
		if a.cart.Items[i].ID == lineItemID {
			a.cart.Items = append(a.cart.Items[:i], a.cart.Items[i+1:]...)
			return
		}
	}
}

func (a *Aggregate) removeShipment(shipmentID string) {
	if shipmentID == "" {
		return
	}
	for i := range a.cart.Shipments {
		if a.cart.Shipments[i].ID == shipmentID {
			a.cart.Shipments = append(a.cart.Shipments[:i], a.cart.Shipments[i+1:]...)
			return
		}
	}
}

func (a *Aggregate) removePayment(paymentID string) {
	if paymentID == "" {
		return
	}
	for i := range a.cart.Payments {
		if a.cart.Payments[i].ID == paymentID {
			a.cart.Payments = append(a.cart.Payments[:i], a.cart.Payments[i+1:]...)
			return
		}
	}
}

// begin guards every mutation: the cart must be loaded and the context
// still live, so a cancelled call never applies a partial change.
func (a *Aggregate) begin(ctx context.Context) error {
	if err := a.ensureLoaded(); err != nil {
		return err
	}
	return ctx.Err()
}

func (a *Aggregate) ensureLoaded() error {
	if a.cart == nil {
		return domain.ErrCartNotLoaded
	}
	return nil
}

// stripIdentities resets the persisted identity of every nested entity so
// merging never inserts duplicate keys into the target cart.
func stripIdentities(cart *domain.Cart) {
	cart.ID = ""
	for i := range cart.Items {
		cart.Items[i].ID = ""
	}
	for i := range cart.Shipments {
		cart.Shipments[i].ID = ""
		// Shipment line references point at the source cart's items and
		// are meaningless after the identity reset.
		cart.Shipments[i].Items = nil
		if cart.Shipments[i].DeliveryAddress != nil {
			cart.Shipments[i].DeliveryAddress.Key = ""
		}
	}
	for i := range cart.Payments {
		cart.Payments[i].ID = ""
		if cart.Payments[i].BillingAddress != nil {
			cart.Payments[i].BillingAddress.Key = ""
		}
	}
}

func grossSubTotal(cart *domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
