package promotion

import (
	"context"
	"io"
	"log"
	"sort"
	"strings"

	"storefront-purchase/internal/domain"
)

// Repository loads promotion configuration for a store.
type Repository interface {
	FindActiveByStore(ctx context.Context, storeID string) ([]domain.Promotion, error)
}

// Service evaluates which configured promotions apply to a cart context
// and emits the resulting rewards. It decides applicability only; how a
// reward is merged back into cart state is the aggregate's concern.
type Service struct {
	repo   Repository
	logger *log.Logger
}

// New builds the evaluator. logger may be nil.
func New(repo Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// Evaluate returns rewards for every active promotion whose coupon and
// subtotal gates pass, ordered by promotion priority.
func (s *Service) Evaluate(ctx context.Context, evalContext domain.PromotionEvaluationContext) ([]domain.PromotionReward, error) {
	promotions, err := s.repo.FindActiveByStore(ctx, evalContext.StoreID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(promotions, func(i, j int) bool {
		return promotions[i].Priority < promotions[j].Priority
	})

	var rewards []domain.PromotionReward
	for _, promo := range promotions {
		if !applies(promo, evalContext) {
			continue
		}
		rewards = append(rewards, buildRewards(promo, evalContext)...)
	}
	return rewards, nil
}

func applies(promo domain.Promotion, evalContext domain.PromotionEvaluationContext) bool {
	if !promo.IsActive {
		return false
	}
	if promo.Coupon != "" && !containsFold(evalContext.Coupons, promo.Coupon) {
		return false
	}
	if promo.MinSubTotal.IsPositive() && evalContext.CartSubTotal.LessThan(promo.MinSubTotal) {
		return false
	}
	return true
}

func buildRewards(promo domain.Promotion, evalContext domain.PromotionEvaluationContext) []domain.PromotionReward {
	base := domain.PromotionReward{
		PromotionID:   promo.ID,
		Name:          promo.Name,
		Kind:          promo.Kind,
		IsValid:       true,
		Coupon:        promo.Coupon,
		IsPercent:     promo.IsPercent,
		Amount:        promo.Amount,
		AmountPercent: promo.AmountPercent,
		MaxLimit:      promo.MaxLimit,
	}

	switch promo.Kind {
	case domain.RewardKindCatalogItem:
		// One reward per matching cart entry.
		var rewards []domain.PromotionReward
		for _, entry := range evalContext.PromoEntries {
			if promo.ProductID != "" && promo.ProductID != entry.ProductID {
				continue
			}
			reward := base
			reward.LineItemID = entry.LineItemID
			reward.ProductID = entry.ProductID
			rewards = append(rewards, reward)
		}
		return rewards
	case domain.RewardKindShipment:
		base.ShipmentMethodCode = promo.MethodCode
	case domain.RewardKindPayment:
		base.PaymentMethodCode = promo.MethodCode
	}
	return []domain.PromotionReward{base}
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
