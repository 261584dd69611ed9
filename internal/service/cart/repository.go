package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront-purchase/internal/domain"
)

// CartStore persists raw cart records.
type CartStore interface {
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
	Find(ctx context.Context, criteria CartSearchCriteria) (*domain.Cart, error)
	Search(ctx context.Context, criteria CartSearchCriteria) ([]domain.Cart, int, error)
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

// StoreService resolves stores by id.
type StoreService interface {
	GetByID(ctx context.Context, storeID string) (*domain.Store, error)
}

// CurrencyService resolves the full registered currency list.
type CurrencyService interface {
	FindAll(ctx context.Context) ([]domain.Currency, error)
}

// MemberService resolves commerce members by id.
type MemberService interface {
	GetByID(ctx context.Context, memberID string) (*domain.Member, error)
}

// UserAccountService resolves identity-side user accounts by id.
type UserAccountService interface {
	GetByID(ctx context.Context, userID string) (*domain.UserAccount, error)
}

// CartSearchCriteria selects carts by natural-key fields with paging.
type CartSearchCriteria struct {
	StoreID    string
	CustomerID string
	Name       string
	Type       string
	Currency   string
	Skip       int
	Take       int
}

// SearchResult is one page of hydrated aggregates.
type SearchResult struct {
	Results    []*Aggregate
	TotalCount int
}

// Repository bridges persisted cart records and the aggregate, and owns
// the save sequence: a cart is never persisted without a fresh
// Recalculate and Validate pass immediately before the write.
type Repository struct {
	newAggregate func() *Aggregate
	carts        CartStore
	stores       StoreService
	currencies   CurrencyService
	members      MemberService
	users        UserAccountService
	logger       *log.Logger
}

// NewRepository builds the aggregate repository. newAggregate supplies a
// fresh aggregate per hydration; logger may be nil.
func NewRepository(newAggregate func() *Aggregate, carts CartStore, stores StoreService, currencies CurrencyService, members MemberService, users UserAccountService, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Repository{
		newAggregate: newAggregate,
		carts:        carts,
		stores:       stores,
		currencies:   currencies,
		members:      members,
		users:        users,
		logger:       logger,
	}
}

// GetCartByID loads a persisted cart and hydrates the aggregate. An
// absent cart returns domain.ErrNotFound, never an implicit empty cart.
func (r *Repository) GetCartByID(ctx context.Context, cartID, language string) (*Aggregate, error) {
	cart, err := r.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, cart, language)
}

// GetCart loads the cart matching the natural key, or domain.ErrNotFound.
func (r *Repository) GetCart(ctx context.Context, name, storeID, userID, language, currencyCode, cartType string) (*Aggregate, error) {
	cart, err := r.carts.Find(ctx, CartSearchCriteria{
		StoreID:    storeID,
		CustomerID: userID,
		Name:       name,
		Currency:   currencyCode,
		Type:       cartType,
	})
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, cart, language)
}

// GetOrCreate returns the existing cart for the natural key or a new
// empty, unpersisted cart record scoped to it. Nothing is written until a
// mutation triggers Save.
func (r *Repository) GetOrCreate(ctx context.Context, name, storeID, userID, language, currencyCode, cartType string) (*Aggregate, error) {
	aggregate, err := r.GetCart(ctx, name, storeID, userID, language, currencyCode, cartType)
	if err == nil {
		return aggregate, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = "default"
	}
	cart := &domain.Cart{
		StoreID:      storeID,
		CustomerID:   userID,
		Name:         name,
		Type:         cartType,
		Currency:     currencyCode,
		LanguageCode: language,
		Items:        []domain.LineItem{},
		Shipments:    []domain.Shipment{},
		Payments:     []domain.Payment{},
		Coupons:      []string{},
		TaxDetails:   []domain.TaxDetail{},
	}
	return r.hydrate(ctx, cart, language)
}

// Search returns a page of carts, each hydrated through the same load
// path as a single-cart load.
func (r *Repository) Search(ctx context.Context, criteria CartSearchCriteria, language string) (*SearchResult, error) {
	carts, total, err := r.carts.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{TotalCount: total, Results: make([]*Aggregate, 0, len(carts))}
	for i := range carts {
		aggregate, err := r.hydrate(ctx, &carts[i], language)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, aggregate)
	}
	return result, nil
}

// Save runs Recalculate, then Validate, then persists. Failures owned by
// strict rules block the write.
func (r *Repository) Save(ctx context.Context, aggregate *Aggregate) error {
	if _, err := aggregate.Recalculate(ctx); err != nil {
		return err
	}
	if _, err := aggregate.Validate(ctx); err != nil {
		return err
	}
	if blocking := aggregate.StrictFailures(); len(blocking) > 0 {
		return &ValidationError{Failures: blocking}
	}
	saved, err := r.carts.Save(ctx, aggregate.Cart())
	if err != nil {
		return err
	}
	*aggregate.Cart() = *saved
	return nil
}

// Remove deletes the persisted cart record. Any aggregate still holding
// it becomes invalid for further saves.
func (r *Repository) Remove(ctx context.Context, cartID string) error {
	return r.carts.Delete(ctx, cartID)
}

// hydrate builds a fully consistent aggregate from a raw cart record:
// store and currency list resolved together, effective language derived,
// currency cloned with that language, customer resolved with the
// user-account fallback, products loaded, totals recalculated and the
// default validation pass applied.
func (r *Repository) hydrate(ctx context.Context, cart *domain.Cart, language string) (*Aggregate, error) {
	var store *domain.Store
	var currencies []domain.Currency

	// Neither lookup depends on the other; issue both and join.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		store, err = r.stores.GetByID(groupCtx, cart.StoreID)
		return err
	})
	group.Go(func() error {
		var err error
		currencies, err = r.currencies.FindAll(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store %s: %w", cart.StoreID, domain.ErrStoreNotFound)
	}

	if cart.Currency == "" {
		cart.Currency = store.DefaultCurrency
	}
	var currency *domain.Currency
	for i := range currencies {
		if strings.EqualFold(currencies[i].Code, cart.Currency) {
			currency = &currencies[i]
			break
		}
	}
	if currency == nil {
		return nil, fmt.Errorf("cart currency %s: %w", cart.Currency, domain.ErrCurrencyNotRegistered)
	}

	effectiveLanguage := language
	if effectiveLanguage == "" {
		effectiveLanguage = store.DefaultLanguage
	}
	if effectiveLanguage == "" {
		effectiveLanguage = domain.DefaultLanguage
	}
	cart.LanguageCode = effectiveLanguage

	member, err := r.resolveMember(ctx, cart.CustomerID)
	if err != nil {
		return nil, err
	}
	if member != nil {
		cart.CustomerName = member.Name
	}

	aggregate := r.newAggregate()
	if _, err := aggregate.Take(ctx, cart, *store, member, currency.WithLanguage(effectiveLanguage)); err != nil {
		return nil, err
	}
	if _, err := aggregate.Validate(ctx); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// resolveMember tries the direct member lookup first, then falls back to
// the user account whose member id points at the commerce record, which
// covers registered accounts whose identity and member records differ.
// An unresolvable customer yields an anonymous cart, not an error.
func (r *Repository) resolveMember(ctx context.Context, customerID string) (*domain.Member, error) {
	if customerID == "" {
		return nil, nil
	}
	member, err := r.members.GetByID(ctx, customerID)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := r.users.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.MemberID == "" {
		return nil, nil
	}
	member, err = r.members.GetByID(ctx, user.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("cart repository: user %s references missing member %s", user.ID, user.MemberID)
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}
