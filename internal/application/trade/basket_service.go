package trade

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// BasketService manages the caller's basket. Every operation is scoped
// to the caller's own basket order.
type BasketService struct {
	orderRepo trade.OrderRepository
	itemRepo  trade.OrderItemRepository
	logger    *zap.Logger
}

// NewBasketService creates a new BasketService
func NewBasketService(orderRepo trade.OrderRepository, itemRepo trade.OrderItemRepository, logger *zap.Logger) *BasketService {
	return &BasketService{orderRepo: orderRepo, itemRepo: itemRepo, logger: logger}
}

// GetBasket returns the caller's basket with items and total, or an
// empty list when the caller has none
func (s *BasketService) GetBasket(ctx context.Context, userID shared.ID) ([]OrderResponse, error) {
	basket, err := s.orderRepo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []OrderResponse{}, nil
		}
		return nil, err
	}
	return []OrderResponse{ToOrderResponse(basket)}, nil
}

// AddItems puts listings into the caller's basket and returns how many
// lines were created. Lines are created one by one; the first failure
// stops the loop and earlier lines stay.
func (s *BasketService) AddItems(ctx context.Context, userID shared.ID, items []BasketItemInput) (int, error) {
	if len(items) == 0 {
		return 0, shared.ErrMissingArguments
	}
	basket, err := s.orderRepo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, in := range items {
		item, err := trade.NewOrderItem(basket.ID, in.ProductInfo, in.Quantity)
		if err != nil {
			return created, err
		}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			s.logger.Info("basket item rejected",
				zap.Uint64("order_id", basket.ID),
				zap.Uint64("product_info", in.ProductInfo),
				zap.Error(err))
			return created, err
		}
		created++
	}
	return created, nil
}

// UpdateItems changes quantities of lines in the caller's basket. Lines
// of other orders and non-positive quantities are skipped. A caller
// without a basket has nothing to update.
func (s *BasketService) UpdateItems(ctx context.Context, userID shared.ID, items []BasketItemUpdate) (int64, error) {
	if len(items) == 0 {
		return 0, shared.ErrMissingArguments
	}
	basket, err := s.orderRepo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var updated int64
	for _, in := range items {
		if in.ID == 0 || in.Quantity <= 0 {
			continue
		}
		n, err := s.itemRepo.UpdateQuantity(ctx, basket.ID, in.ID, in.Quantity)
		if err != nil {
			return updated, err
		}
		updated += n
	}
	return updated, nil
}

// RemoveItems deletes lines of the caller's basket
func (s *BasketService) RemoveItems(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, shared.ErrMissingArguments
	}
	basket, err := s.orderRepo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.itemRepo.DeleteByIDs(ctx, basket.ID, ids)
}
