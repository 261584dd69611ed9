package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
)

type stubProducts struct {
	products map[string]domain.CartProduct
	err      error
	calls    int
}

func (s *stubProducts) GetCartProducts(_ context.Context, _ *domain.Cart, productIDs []string) (map[string]domain.CartProduct, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := map[string]domain.CartProduct{}
	for _, id := range productIDs {
		if product, ok := s.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

type stubPromotions struct {
	rewards []domain.PromotionReward
	err     error
	calls   int
}

func (s *stubPromotions) Evaluate(_ context.Context, _ domain.PromotionEvaluationContext) ([]domain.PromotionReward, error) {
	s.calls++
	return s.rewards, s.err
}

type stubTaxSearch struct {
	providers []domain.TaxProvider
	err       error
}

func (s *stubTaxSearch) FindProviders(_ context.Context, _ []string) ([]domain.TaxProvider, error) {
	return s.providers, s.err
}

type stubShippingSearch struct {
	methods []domain.ShippingMethod
	err     error
}

func (s *stubShippingSearch) Search(_ context.Context, _ MethodSearchCriteria) ([]domain.ShippingMethod, error) {
	return s.methods, s.err
}

type stubPaymentSearch struct {
	methods []domain.PaymentMethod
	err     error
}

func (s *stubPaymentSearch) Search(_ context.Context, _ MethodSearchCriteria) ([]domain.PaymentMethod, error) {
	return s.methods, s.err
}

type testEnv struct {
	products *stubProducts
	promos   *stubPromotions
	taxes    *stubTaxSearch
	shipping *stubShippingSearch
	payments *stubPaymentSearch
}

func newTestEnv() *testEnv {
	return &testEnv{
		products: &stubProducts{products: map[string]domain.CartProduct{}},
		promos:   &stubPromotions{},
		taxes:    &stubTaxSearch{},
		shipping: &stubShippingSearch{},
		payments: &stubPaymentSearch{},
	}
}

func (e *testEnv) aggregate() *Aggregate {
	return NewAggregate(Deps{
		Products:        e.products,
		Promotions:      e.promos,
		TaxProviders:    e.taxes,
		ShippingMethods: e.shipping,
		PaymentMethods:  e.payments,
		Totals:          NewDefaultTotals(),
	})
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func testStore() domain.Store {
	return domain.Store{ID: "store1", Name: "Demo", DefaultCurrency: "USD", DefaultLanguage: "en-US", TaxCalculationEnabled: true}
}

func testCurrency() domain.Currency {
	return domain.Currency{Code: "USD", Symbol: "$", ExchangeRate: dec("1"), DecimalDigits: 2, LanguageCode: "en-US"}
}

func testCart() *domain.Cart {
	return &domain.Cart{ID: "cart1", StoreID: "store1", CustomerID: "user1", Name: "default", Currency: "USD"}
}

func testProduct(id string, price string) domain.CartProduct {
	return domain.CartProduct{
		ID:          id,
		SKU:         "SKU-" + id,
		Name:        "Product " + id,
		ListPrice:   dec(price),
		SalePrice:   dec(price),
		InStock:     100,
		IsAvailable: true,
		IsBuyable:   true,
	}
}

func flatTaxProvider(rate string) domain.TaxProvider {
	return domain.TaxProvider{ID: "tax1", StoreID: "store1", Code: "flat", Name: "Flat Rate", IsActive: true, PercentRate: dec(rate)}
}

func take(t *testing.T, env *testEnv, cart *domain.Cart) *Aggregate {
	t.Helper()
	aggregate, err := env.aggregate().Take(context.Background(), cart, testStore(), &domain.Member{ID: "user1", Name: "Demo User"}, testCurrency())
	if err != nil {
		t.Fatalf("take cart: %v", err)
	}
	return aggregate
}

func TestMutationWithoutCartFails(t *testing.T) {
	env := newTestEnv()
	aggregate := env.aggregate()
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 1}); !errors.Is(err, domain.ErrCartNotLoaded) {
		t.Fatalf("expected ErrCartNotLoaded, got %v", err)
	}
	if _, err := aggregate.Recalculate(context.Background()); !errors.Is(err, domain.ErrCartNotLoaded) {
		t.Fatalf("expected ErrCartNotLoaded, got %v", err)
	}
}

func TestRecalculateFixedTaxScenario(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.taxes.providers = []domain.TaxProvider{flatTaxProvider("0.10")}

	aggregate := take(t, env, testCart())
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	totals := aggregate.Cart().Totals
	if !totals.SubTotal.Equal(dec("20.00")) {
		t.Fatalf("subtotal = %s, want 20.00", totals.SubTotal)
	}
	if !totals.TaxTotal.Equal(dec("2.00")) {
		t.Fatalf("tax total = %s, want 2.00", totals.TaxTotal)
	}
	if !totals.Total.Equal(dec("22.00")) {
		t.Fatalf("grand total = %s, want 22.00", totals.Total)
	}
	if len(aggregate.Cart().TaxDetails) != 1 || !aggregate.Cart().TaxDetails[0].Rate.Equal(dec("0.10")) {
		t.Fatalf("unexpected tax details %+v", aggregate.Cart().TaxDetails)
	}
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 3}); err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	items := aggregate.Cart().Items
	if len(items) != 1 {
		t.Fatalf("expected one line item, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", items[0].Quantity)
	}
}

func TestAddItemZeroQuantityRejected(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")

	aggregate := take(t, env, testCart())
	_, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 0})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newTestEnv()
	aggregate := take(t, env, testCart())
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "missing", Quantity: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTierPriceAndListPriceFloor(t *testing.T) {
	env := newTestEnv()
	product := testProduct("p1", "10.00")
	product.TierPrices = []domain.TierPrice{
		{Quantity: 5, Price: dec("8.00")},
		{Quantity: 10, Price: dec("6.00")},
	}
	env.products.products["p1"] = product

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	item := aggregate.Cart().Items[0]
	if _, err := aggregate.ChangeItemQuantity(ctx, item.ID, 10); err != nil {
		t.Fatalf("ChangeItemQuantity: %v", err)
	}

	got := aggregate.Cart().Items[0]
	if !got.SalePrice.Equal(dec("6.00")) {
		t.Fatalf("sale price = %s, want 6.00", got.SalePrice)
	}
	if got.ListPrice.LessThan(got.SalePrice) {
		t.Fatalf("list price %s below sale price %s", got.ListPrice, got.SalePrice)
	}
}

func TestListPriceFloorAfterCustomPrice(t *testing.T) {
	env := newTestEnv()
	product := testProduct("p1", "10.00")
	product.TierPrices = []domain.TierPrice{{Quantity: 2, Price: dec("12.00")}}
	env.products.products["p1"] = product

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	price := dec("5.00")
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 1, Price: &price}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	item := aggregate.Cart().Items[0]
	// The tier price for quantity 2 is above the custom list price; the
	// floor invariant must raise the list price to match.
	if _, err := aggregate.ChangeItemQuantity(ctx, item.ID, 2); err != nil {
		t.Fatalf("ChangeItemQuantity: %v", err)
	}

	got := aggregate.Cart().Items[0]
	if !got.SalePrice.Equal(dec("12.00")) || !got.ListPrice.Equal(dec("12.00")) {
		t.Fatalf("prices = list %s sale %s, want both 12.00", got.ListPrice, got.SalePrice)
	}
}

func TestChangeItemQuantityZeroRemovesItem(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := aggregate.ChangeItemQuantity(ctx, aggregate.Cart().Items[0].ID, 0); err != nil {
		t.Fatalf("ChangeItemQuantity: %v", err)
	}
	if len(aggregate.Cart().Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(aggregate.Cart().Items))
	}
	if !aggregate.Cart().Totals.Total.IsZero() {
		t.Fatalf("grand total = %s, want 0", aggregate.Cart().Totals.Total)
	}
}

func TestReadOnlyItemIgnoresQuantityChange(t *testing.T) {
	env := newTestEnv()
	cart := testCart()
	cart.Items = []domain.LineItem{{
		ID: "li1", ProductID: "p1", Quantity: 2, ListPrice: dec("10.00"), SalePrice: dec("10.00"), IsReadOnly: true,
	}}

	aggregate := take(t, env, cart)
	if _, err := aggregate.ChangeItemQuantity(context.Background(), "li1", 7); err != nil {
		t.Fatalf("ChangeItemQuantity: %v", err)
	}
	if aggregate.Cart().Items[0].Quantity != 2 {
		t.Fatalf("read-only item quantity changed to %d", aggregate.Cart().Items[0].Quantity)
	}
}

func TestReadOnlyItemSkipsPromotionEvaluation(t *testing.T) {
	env := newTestEnv()
	cart := testCart()
	cart.Items = []domain.LineItem{{
		ID: "li1", ProductID: "p1", Quantity: 1, ListPrice: dec("10.00"), SalePrice: dec("10.00"), IsReadOnly: true,
	}}

	aggregate := take(t, env, cart)
	if env.promos.calls != 0 {
		t.Fatalf("promotions evaluated %d times for a read-only cart", env.promos.calls)
	}
	if _, err := aggregate.Recalculate(context.Background()); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if env.promos.calls != 0 {
		t.Fatalf("promotions evaluated %d times after recalculate", env.promos.calls)
	}
}

func TestCouponSetCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	aggregate := take(t, env, testCart())
	ctx := context.Background()

	for _, code := range []string{"SAVE10", "save10", "Save10"} {
		if _, err := aggregate.AddCoupon(ctx, code); err != nil {
			t.Fatalf("AddCoupon(%s): %v", code, err)
		}
	}
	if got := len(aggregate.Cart().Coupons); got != 1 {
		t.Fatalf("coupon count = %d, want 1", got)
	}

	if _, err := aggregate.RemoveCoupon(ctx, "SAVE10"); err != nil {
		t.Fatalf("RemoveCoupon: %v", err)
	}
	if got := len(aggregate.Cart().Coupons); got != 0 {
		t.Fatalf("coupon count after remove = %d, want 0", got)
	}
}

func TestRemoveCouponEmptyCodeClearsAll(t *testing.T) {
	env := newTestEnv()
	aggregate := take(t, env, testCart())
	ctx := context.Background()

	for _, code := range []string{"a", "b"} {
		if _, err := aggregate.AddCoupon(ctx, code); err != nil {
			t.Fatalf("AddCoupon: %v", err)
		}
	}
	if _, err := aggregate.RemoveCoupon(ctx, ""); err != nil {
		t.Fatalf("RemoveCoupon: %v", err)
	}
	if len(aggregate.Cart().Coupons) != 0 {
		t.Fatalf("coupons not cleared: %v", aggregate.Cart().Coupons)
	}
}

func TestAddOrUpdateShipmentResolvesRate(t *testing.T) {
	env := newTestEnv()
	env.shipping.methods = []domain.ShippingMethod{{
		ID: "sm1", StoreID: "store1", Code: "ground", Name: "Ground", IsActive: true, BaseRate: dec("5.00"),
	}}

	aggregate := take(t, env, testCart())
	shipment := domain.Shipment{
		MethodCode:      "GROUND",
		DeliveryAddress: &domain.Address{Key: "profile-addr-1", City: "Riga"},
	}
	if _, err := aggregate.AddOrUpdateShipment(context.Background(), shipment); err != nil {
		t.Fatalf("AddOrUpdateShipment: %v", err)
	}

	shipments := aggregate.Cart().Shipments
	if len(shipments) != 1 {
		t.Fatalf("shipment count = %d, want 1", len(shipments))
	}
	got := shipments[0]
	if !got.Price.Equal(dec("5.00")) {
		t.Fatalf("shipment price = %s, want 5.00", got.Price)
	}
	if got.Currency != "USD" {
		t.Fatalf("shipment currency = %q, want USD", got.Currency)
	}
	if got.DeliveryAddress.Key != "" {
		t.Fatalf("delivery address key not cleared: %q", got.DeliveryAddress.Key)
	}
	if got.ID == "" {
		t.Fatalf("shipment id not assigned")
	}
}

func TestAddOrUpdateShipmentUnknownMethod(t *testing.T) {
	env := newTestEnv()
	env.shipping.methods = []domain.ShippingMethod{{
		ID: "sm1", StoreID: "store1", Code: "ground", IsActive: true, BaseRate: dec("5.00"),
	}}

	aggregate := take(t, env, testCart())
	_, err := aggregate.AddOrUpdateShipment(context.Background(), domain.Shipment{MethodCode: "air"})
	var refErr *domain.InvalidReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected InvalidReferenceError, got %v", err)
	}
	if len(aggregate.Cart().Shipments) != 0 {
		t.Fatalf("failed attach left %d shipments on the cart", len(aggregate.Cart().Shipments))
	}
}

func TestAddOrUpdateShipmentTransientCartSkipsResolution(t *testing.T) {
	env := newTestEnv()
	cart := testCart()
	cart.ID = ""

	aggregate := take(t, env, cart)
	shipment := domain.Shipment{MethodCode: "anything", Price: dec("3.00")}
	if _, err := aggregate.AddOrUpdateShipment(context.Background(), shipment); err != nil {
		t.Fatalf("AddOrUpdateShipment: %v", err)
	}
	if !aggregate.Cart().Shipments[0].Price.Equal(dec("3.00")) {
		t.Fatalf("transient cart shipment price rewritten to %s", aggregate.Cart().Shipments[0].Price)
	}
}

func TestAddOrUpdateShipmentReplacesSameIdentity(t *testing.T) {
	env := newTestEnv()
	cart := testCart()
	cart.ID = ""

	aggregate := take(t, env, cart)
	ctx := context.Background()
	if _, err := aggregate.AddOrUpdateShipment(ctx, domain.Shipment{ID: "sh1", Price: dec("3.00")}); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if _, err := aggregate.AddOrUpdateShipment(ctx, domain.Shipment{ID: "sh1", Price: dec("4.00")}); err != nil {
		t.Fatalf("second attach: %v", err)
	}
	shipments := aggregate.Cart().Shipments
	if len(shipments) != 1 {
		t.Fatalf("shipment count = %d, want 1", len(shipments))
	}
	if !shipments[0].Price.Equal(dec("4.00")) {
		t.Fatalf("shipment price = %s, want 4.00", shipments[0].Price)
	}
}

func TestAddOrUpdatePaymentUnknownGateway(t *testing.T) {
	env := newTestEnv()
	env.payments.methods = []domain.PaymentMethod{{ID: "pm1", StoreID: "store1", Code: "invoice", IsActive: true}}

	aggregate := take(t, env, testCart())
	_, err := aggregate.AddOrUpdatePayment(context.Background(), domain.Payment{GatewayCode: "card"})
	var refErr *domain.InvalidReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected InvalidReferenceError, got %v", err)
	}
}

func TestAddOrUpdatePaymentGatewayCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	env.payments.methods = []domain.PaymentMethod{{ID: "pm1", StoreID: "store1", Code: "Invoice", IsActive: true}}

	aggregate := take(t, env, testCart())
	payment := domain.Payment{GatewayCode: "INVOICE", BillingAddress: &domain.Address{Key: "profile-addr-2"}}
	if _, err := aggregate.AddOrUpdatePayment(context.Background(), payment); err != nil {
		t.Fatalf("AddOrUpdatePayment: %v", err)
	}
	got := aggregate.Cart().Payments[0]
	if got.BillingAddress.Key != "" {
		t.Fatalf("billing address key not cleared: %q", got.BillingAddress.Key)
	}
}

func TestMergeWithCart(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.products.products["p2"] = testProduct("p2", "20.00")
	env.products.products["p3"] = testProduct("p3", "30.00")

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	other := &domain.Cart{
		ID:      "cartB",
		StoreID: "store1",
		Items: []domain.LineItem{
			{ID: "b-li1", ProductID: "p2", Quantity: 1, ListPrice: dec("20.00"), SalePrice: dec("20.00")},
			{ID: "b-li2", ProductID: "p3", Quantity: 2, ListPrice: dec("30.00"), SalePrice: dec("30.00")},
		},
		Coupons: []string{"SAVE"},
	}
	if _, err := aggregate.MergeWithCart(ctx, other); err != nil {
		t.Fatalf("MergeWithCart: %v", err)
	}

	cart := aggregate.Cart()
	if len(cart.Items) != 3 {
		t.Fatalf("item count = %d, want 3", len(cart.Items))
	}
	for _, item := range cart.Items {
		if item.ID == "" || item.ID == "b-li1" || item.ID == "b-li2" {
			t.Fatalf("merged item kept source identity %q", item.ID)
		}
	}
	if !cart.HasCoupon("save") {
		t.Fatalf("coupon union missing SAVE: %v", cart.Coupons)
	}
}

func TestMergeWithCartOverlappingProduct(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.products.products["p2"] = testProduct("p2", "20.00")

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	other := &domain.Cart{
		Items: []domain.LineItem{
			{ID: "b-li1", ProductID: "p1", Quantity: 2, ListPrice: dec("10.00"), SalePrice: dec("10.00")},
			{ID: "b-li2", ProductID: "p2", Quantity: 1, ListPrice: dec("20.00"), SalePrice: dec("20.00")},
		},
	}
	if _, err := aggregate.MergeWithCart(ctx, other); err != nil {
		t.Fatalf("MergeWithCart: %v", err)
	}

	cart := aggregate.Cart()
	if len(cart.Items) != 2 {
		t.Fatalf("item count = %d, want 2", len(cart.Items))
	}
	merged := cart.ItemByProduct("p1")
	if merged == nil || merged.Quantity != 3 {
		t.Fatalf("overlapping product quantity = %+v, want 3", merged)
	}
}

func TestRecalculateAbortsOnTaxFailure(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.taxes.providers = []domain.TaxProvider{flatTaxProvider("0.10")}

	aggregate := take(t, env, testCart())
	ctx := context.Background()
	if _, err := aggregate.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	before := aggregate.Cart().Totals

	env.taxes.err = errors.New("tax service down")
	if _, err := aggregate.Recalculate(ctx); err == nil {
		t.Fatalf("expected recalculate failure")
	}
	after := aggregate.Cart().Totals
	if !after.Total.Equal(before.Total) || !after.TaxTotal.Equal(before.TaxTotal) {
		t.Fatalf("totals changed on failed recalculate: before %+v after %+v", before, after)
	}
}

func TestRecalculateStableAcrossMutationOrder(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.products.products["p2"] = testProduct("p2", "7.50")
	env.taxes.providers = []domain.TaxProvider{flatTaxProvider("0.21")}

	ctx := context.Background()

	first := take(t, env, testCart())
	if _, err := first.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := first.AddItem(ctx, NewItem{ProductID: "p2", Quantity: 4}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := first.ChangeItemQuantity(ctx, first.Cart().ItemByProduct("p2").ID, 1); err != nil {
		t.Fatalf("ChangeItemQuantity: %v", err)
	}

	second := take(t, env, testCart())
	if _, err := second.AddItem(ctx, NewItem{ProductID: "p2", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := second.AddItem(ctx, NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	a, b := first.Cart().Totals, second.Cart().Totals
	if !a.Total.Equal(b.Total) || !a.SubTotal.Equal(b.SubTotal) || !a.TaxTotal.Equal(b.TaxTotal) {
		t.Fatalf("order-dependent totals drift: %+v vs %+v", a, b)
	}
}

func TestCancelledContextLeavesCartUntouched(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")

	aggregate := take(t, env, testCart())
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := aggregate.RemoveItem(ctx, aggregate.Cart().Items[0].ID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(aggregate.Cart().Items) != 1 {
		t.Fatalf("cancelled mutation applied a change")
	}
}

func TestPromotionRewardsFoldIntoTotals(t *testing.T) {
	env := newTestEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.promos.rewards = []domain.PromotionReward{{
		PromotionID:   "promo1",
		Kind:          domain.RewardKindCartSubtotal,
		IsValid:       true,
		IsPercent:     true,
		AmountPercent: dec("0.10"),
	}}

	aggregate := take(t, env, testCart())
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	totals := aggregate.Cart().Totals
	if !totals.DiscountTotal.Equal(dec("2.00")) {
		t.Fatalf("discount total = %s, want 2.00", totals.DiscountTotal)
	}
	if !totals.Total.Equal(dec("18.00")) {
		t.Fatalf("grand total = %s, want 18.00", totals.Total)
	}
}
