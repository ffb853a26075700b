package trade

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Errors shown verbatim to API clients
var (
	ErrOrderNotFound  = shared.NewDomainError(shared.CodeNotFound, "Заказ не найден")
	ErrInvalidContact = shared.NewDomainError(shared.CodeInvalidInput, "Неправильно указаны аргументы")
	ErrEmptyBasket    = shared.NewDomainError(shared.CodeInvalidState, "Корзина пуста")
)

// OrderMetrics records placed orders
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal)
}

// OrderService places orders and reports them to buyers and shops
type OrderService struct {
	orderRepo   trade.OrderRepository
	contactRepo identity.ContactRepository
	userRepo    identity.UserRepository
	shopRepo    catalog.ShopRepository
	publisher   shared.EventPublisher
	metrics     OrderMetrics
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. metrics may be nil.
func NewOrderService(
	orderRepo trade.OrderRepository,
	contactRepo identity.ContactRepository,
	userRepo identity.UserRepository,
	shopRepo catalog.ShopRepository,
	publisher shared.EventPublisher,
	metrics OrderMetrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
	}
}

// PlaceOrder checks out the caller's basket with one of the caller's
// contacts. The status email is queued after the order is saved; a
// notification failure does not fail the checkout.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, orderID, contactID shared.ID) error {
	if orderID == 0 || contactID == 0 {
		return shared.ErrMissingArguments
	}
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if _, err := s.contactRepo.FindByIDForUser(ctx, userID, contactID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvalidContact
		}
		return err
	}
	if order.IsBasket() && len(order.Items) == 0 {
		return ErrEmptyBasket
	}

	if err := order.Checkout(contactID); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, order.Total())
	}
	s.logger.Info("order placed",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("user_id", userID),
		zap.String("total", order.Total().String()))
	return nil
}

// ListOrders lists the caller's placed orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID shared.ID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.ListPlacedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListShopOrders lists placed orders that contain listings of the
// caller's shop, each restricted to that shop's lines
func (s *OrderService) ListShopOrders(ctx context.Context, userID shared.ID) ([]OrderResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsShop() {
		return nil, identity.ErrShopsOnly
	}
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []OrderResponse{}, nil
		}
		return nil, err
	}
	orders, err := s.orderRepo.ListPlacedByShop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ChangeState moves an order to the target state and notifies the buyer
func (s *OrderService) ChangeState(ctx context.Context, orderID shared.ID, state trade.OrderState) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if err := order.TransitionTo(state); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	s.publishEvents(ctx, order)
	return nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events", zap.Uint64("order_id", order.ID), zap.Error(err))
	}
	order.ClearDomainEvents()
}
