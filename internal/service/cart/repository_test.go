package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront-purchase/internal/domain"
)

type stubCartStore struct {
	carts   map[string]*domain.Cart
	saved   *domain.Cart
	saveErr error
	deleted []string
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: map[string]*domain.Cart{}}
}

func (s *stubCartStore) GetByID(_ context.Context, cartID string) (*domain.Cart, error) {
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", cartID, domain.ErrNotFound)
	}
	clone := *cart
	return &clone, nil
}

func (s *stubCartStore) Find(_ context.Context, criteria CartSearchCriteria) (*domain.Cart, error) {
	for _, cart := range s.carts {
		if cart.StoreID == criteria.StoreID && cart.CustomerID == criteria.CustomerID && cart.Name == criteria.Name {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCartStore) Search(_ context.Context, criteria CartSearchCriteria) ([]domain.Cart, int, error) {
	var result []domain.Cart
	for _, cart := range s.carts {
		if cart.StoreID == criteria.StoreID {
			result = append(result, *cart)
		}
	}
	return result, len(result), nil
}

func (s *stubCartStore) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	clone := *cart
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("cart%d", len(s.carts)+1)
	}
	s.carts[clone.ID] = &clone
	s.saved = &clone
	return &clone, nil
}

func (s *stubCartStore) Delete(_ context.Context, cartID string) error {
	if _, ok := s.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.carts, cartID)
	s.deleted = append(s.deleted, cartID)
	return nil
}

type stubStores struct {
	stores map[string]domain.Store
}

func (s *stubStores) GetByID(_ context.Context, storeID string) (*domain.Store, error) {
	store, ok := s.stores[storeID]
	if !ok {
		return nil, fmt.Errorf("store %s: %w", storeID, domain.ErrNotFound)
	}
	return &store, nil
}

type stubCurrencies struct {
	currencies []domain.Currency
	err        error
}

func (s *stubCurrencies) FindAll(_ context.Context) ([]domain.Currency, error) {
	return s.currencies, s.err
}

type stubMembers struct {
	members map[string]domain.Member
	err     error
}

func (s *stubMembers) GetByID(_ context.Context, memberID string) (*domain.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
	}
	return &member, nil
}

type stubUsers struct {
	users map[string]domain.UserAccount
}

func (s *stubUsers) GetByID(_ context.Context, userID string) (*domain.UserAccount, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return &user, nil
}

type repoEnv struct {
	*testEnv
	carts      *stubCartStore
	stores     *stubStores
	currencies *stubCurrencies
	members    *stubMembers
	users      *stubUsers
}

func newRepoEnv() *repoEnv {
	return &repoEnv{
		testEnv: newTestEnv(),
		carts:   newStubCartStore(),
		stores: &stubStores{stores: map[string]domain.Store{
			"store1": testStore(),
		}},
		currencies: &stubCurrencies{currencies: []domain.Currency{testCurrency()}},
		members:    &stubMembers{members: map[string]domain.Member{}},
		users:      &stubUsers{users: map[string]domain.UserAccount{}},
	}
}

func (e *repoEnv) repository() *Repository {
	return NewRepository(e.aggregate, e.carts, e.stores, e.currencies, e.members, e.users, nil)
}

func TestGetCartByIDNotFound(t *testing.T) {
	env := newRepoEnv()
	_, err := env.repository().GetCartByID(context.Background(), "missing", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCartByIDHydrates(t *testing.T) {
	env := newRepoEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.taxes.providers = []domain.TaxProvider{flatTaxProvider("0.10")}
	env.members.members["user1"] = domain.Member{ID: "user1", Name: "Demo User"}
	env.carts.carts["cart1"] = &domain.Cart{
		ID: "cart1", StoreID: "store1", CustomerID: "user1", Name: "default", Currency: "USD",
		Items: []domain.LineItem{{ID: "li1", ProductID: "p1", Quantity: 2, ListPrice: dec("10.00"), SalePrice: dec("10.00")}},
	}

	aggregate, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if err != nil {
		t.Fatalf("GetCartByID: %v", err)
	}
	if !aggregate.Cart().Totals.Total.Equal(dec("22.00")) {
		t.Fatalf("hydrated total = %s, want 22.00", aggregate.Cart().Totals.Total)
	}
	if aggregate.Member() == nil || aggregate.Member().Name != "Demo User" {
		t.Fatalf("member not resolved: %+v", aggregate.Member())
	}
	if aggregate.Cart().CustomerName != "Demo User" {
		t.Fatalf("customer name not stamped: %q", aggregate.Cart().CustomerName)
	}
}

func TestHydrateUnknownStore(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "ghost", Currency: "USD"}

	_, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found store error, got %v", err)
	}
}

func TestHydrateUnregisteredCurrency(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1", Currency: "XXX"}

	_, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if !errors.Is(err, domain.ErrCurrencyNotRegistered) {
		t.Fatalf("expected ErrCurrencyNotRegistered, got %v", err)
	}
}

func TestHydrateCurrencyDefaultsToStore(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1"}

	aggregate, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if err != nil {
		t.Fatalf("GetCartByID: %v", err)
	}
	if aggregate.Cart().Currency != "USD" {
		t.Fatalf("currency = %q, want store default USD", aggregate.Cart().Currency)
	}
}

func TestHydrateLanguageFallbackChain(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1", Currency: "USD"}

	cases := []struct {
		name         string
		requested    string
		storeDefault string
		want         string
	}{
		{"caller wins", "de-DE", "en-GB", "de-DE"},
		{"store default", "", "en-GB", "en-GB"},
		{"global default", "", "", domain.DefaultLanguage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := testStore()
			store.DefaultLanguage = tc.storeDefault
			env.stores.stores["store1"] = store

			aggregate, err := env.repository().GetCartByID(context.Background(), "cart1", tc.requested)
			if err != nil {
				t.Fatalf("GetCartByID: %v", err)
			}
			if got := aggregate.Cart().LanguageCode; got != tc.want {
				t.Fatalf("language = %q, want %q", got, tc.want)
			}
			if got := aggregate.Currency().LanguageCode; got != tc.want {
				t.Fatalf("currency language = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveMemberUserAccountFallback(t *testing.T) {
	env := newRepoEnv()
	env.users.users["user1"] = domain.UserAccount{ID: "user1", UserName: "demo", MemberID: "member1"}
	env.members.members["member1"] = domain.Member{ID: "member1", Name: "Linked Member"}
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1", CustomerID: "user1", Currency: "USD"}

	aggregate, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if err != nil {
		t.Fatalf("GetCartByID: %v", err)
	}
	if aggregate.Member() == nil || aggregate.Member().ID != "member1" {
		t.Fatalf("fallback member not resolved: %+v", aggregate.Member())
	}
}

func TestResolveMemberUnresolvableIsAnonymous(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1", CustomerID: "stranger", Currency: "USD"}

	aggregate, err := env.repository().GetCartByID(context.Background(), "cart1", "")
	if err != nil {
		t.Fatalf("GetCartByID: %v", err)
	}
	if aggregate.Member() != nil {
		t.Fatalf("expected anonymous cart, got member %+v", aggregate.Member())
	}
}

func TestGetOrCreateReturnsUnpersistedCart(t *testing.T) {
	env := newRepoEnv()

	aggregate, err := env.repository().GetOrCreate(context.Background(), "", "store1", "user1", "", "USD", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	cart := aggregate.Cart()
	if !cart.IsTransient() {
		t.Fatalf("new cart has persisted identity %q", cart.ID)
	}
	if cart.Name != "default" {
		t.Fatalf("name = %q, want default", cart.Name)
	}
	if cart.Items == nil || cart.Coupons == nil {
		t.Fatalf("containers not initialized: %+v", cart)
	}
	if len(env.carts.carts) != 0 {
		t.Fatalf("GetOrCreate persisted the cart")
	}
}

func TestGetOrCreateFindsExisting(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{
		ID: "cart1", StoreID: "store1", CustomerID: "user1", Name: "default", Currency: "USD",
	}

	aggregate, err := env.repository().GetOrCreate(context.Background(), "default", "store1", "user1", "", "USD", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if aggregate.Cart().ID != "cart1" {
		t.Fatalf("existing cart not returned: %+v", aggregate.Cart())
	}
}

func TestSavePersistsAndCopiesBack(t *testing.T) {
	env := newRepoEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	repository := env.repository()

	aggregate, err := repository.GetOrCreate(context.Background(), "", "store1", "", "", "USD", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := aggregate.AddItem(context.Background(), NewItem{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := repository.Save(context.Background(), aggregate); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if aggregate.Cart().ID == "" {
		t.Fatalf("persisted identity not copied back")
	}
	if env.carts.saved == nil || !env.carts.saved.Totals.Total.Equal(dec("10.00")) {
		t.Fatalf("persisted totals = %+v", env.carts.saved)
	}
}

func TestSaveBlockedByStrictFailures(t *testing.T) {
	env := newRepoEnv()
	env.payments.methods = []domain.PaymentMethod{{ID: "pm1", StoreID: "store1", Code: "invoice", IsActive: true}}
	env.carts.carts["cart1"] = &domain.Cart{
		ID: "cart1", StoreID: "store1", Name: "default", Currency: "USD",
		Payments: []domain.Payment{{ID: "pay1", GatewayCode: "retired-gateway"}},
	}
	repository := env.repository()

	aggregate, err := repository.GetCartByID(context.Background(), "cart1", "")
	if err != nil {
		t.Fatalf("GetCartByID: %v", err)
	}
	err = repository.Save(context.Background(), aggregate)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if env.carts.saved != nil {
		t.Fatalf("blocked save still persisted the cart")
	}
}

func TestSearchHydratesEveryHit(t *testing.T) {
	env := newRepoEnv()
	env.products.products["p1"] = testProduct("p1", "10.00")
	env.carts.carts["cart1"] = &domain.Cart{
		ID: "cart1", StoreID: "store1", Name: "default", Currency: "USD",
		Items: []domain.LineItem{{ID: "li1", ProductID: "p1", Quantity: 1, ListPrice: dec("10.00"), SalePrice: dec("10.00")}},
	}
	env.carts.carts["cart2"] = &domain.Cart{ID: "cart2", StoreID: "store1", Name: "wishlist", Currency: "USD"}

	result, err := env.repository().Search(context.Background(), CartSearchCriteria{StoreID: "store1"}, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.TotalCount != 2 || len(result.Results) != 2 {
		t.Fatalf("result = %d/%d, want 2/2", len(result.Results), result.TotalCount)
	}
	for _, aggregate := range result.Results {
		if aggregate.Store().ID != "store1" {
			t.Fatalf("hit not hydrated: %+v", aggregate.Store())
		}
	}
}

func TestRemoveDeletesRecord(t *testing.T) {
	env := newRepoEnv()
	env.carts.carts["cart1"] = &domain.Cart{ID: "cart1", StoreID: "store1", Currency: "USD"}

	if err := env.repository().Remove(context.Background(), "cart1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(env.carts.deleted) != 1 || env.carts.deleted[0] != "cart1" {
		t.Fatalf("delete not forwarded: %v", env.carts.deleted)
	}
}
