package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders    *MockOrderRepository
	contacts  *MockContactRepository
	users     *MockUserRepository
	shops     *MockShopRepository
	publisher *testutil.RecordingPublisher
	metrics   *recordingOrderMetrics
	service   *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    new(MockOrderRepository),
		contacts:  new(MockContactRepository),
		users:     new(MockUserRepository),
		shops:     new(MockShopRepository),
		publisher: testutil.NewRecordingPublisher(),
		metrics:   &recordingOrderMetrics{},
	}
	f.service = NewOrderService(f.orders, f.contacts, f.users, f.shops, f.publisher, f.metrics, zap.NewNop())
	return f
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places basket and publishes state change", func(t *testing.T) {
		f := newOrderFixture()
		basket := basketWithItems(12, 5, priced(1, 2, 500))
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(basket, nil)
		f.contacts.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(3)).Return(&identity.Contact{UserID: 5}, nil)
		f.orders.On("Save", ctx, basket).Return(nil)

		require.NoError(t, f.service.PlaceOrder(ctx, 5, 12, 3))

		assert.Equal(t, trade.OrderStateNew, basket.State)
		require.NotNil(t, basket.ContactID)
		assert.Equal(t, shared.ID(3), *basket.ContactID)
		assert.Len(t, f.publisher.OfType(trade.EventTypeOrderStateChanged), 1)
		assert.Empty(t, basket.GetDomainEvents())
		require.Len(t, f.metrics.totals, 1)
		assert.Equal(t, "1000", f.metrics.totals[0].String())
	})

	t.Run("order of another user", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.service.PlaceOrder(ctx, 5, 12, 3), ErrOrderNotFound)
	})

	t.Run("contact of another user", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(basketWithItems(12, 5, priced(1, 1, 1)), nil)
		f.contacts.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(3)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.service.PlaceOrder(ctx, 5, 12, 3), ErrInvalidContact)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty basket", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(basketWithItems(12, 5), nil)
		f.contacts.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(3)).Return(&identity.Contact{}, nil)

		assert.ErrorIs(t, f.service.PlaceOrder(ctx, 5, 12, 3), ErrEmptyBasket)
	})

	t.Run("already placed", func(t *testing.T) {
		f := newOrderFixture()
		placed := basketWithItems(12, 5, priced(1, 1, 1))
		placed.State = trade.OrderStateNew
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(placed, nil)
		f.contacts.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(3)).Return(&identity.Contact{}, nil)

		assert.ErrorIs(t, f.service.PlaceOrder(ctx, 5, 12, 3), shared.ErrInvalidState)
	})

	t.Run("publish failure does not fail checkout", func(t *testing.T) {
		f := newOrderFixture()
		f.publisher.SetError(errors.New("queue down"))
		basket := basketWithItems(12, 5, priced(1, 1, 1))
		f.orders.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(12)).Return(basket, nil)
		f.contacts.On("FindByIDForUser", ctx, shared.ID(5), shared.ID(3)).Return(&identity.Contact{}, nil)
		f.orders.On("Save", ctx, basket).Return(nil)

		assert.NoError(t, f.service.PlaceOrder(ctx, 5, 12, 3))
	})

	t.Run("zero ids", func(t *testing.T) {
		f := newOrderFixture()
		assert.ErrorIs(t, f.service.PlaceOrder(ctx, 5, 0, 3), shared.ErrMissingArguments)
	})
}

func TestOrderService_ListShopOrders(t *testing.T) {
	ctx := context.Background()
	shopUser := &identity.User{Type: identity.UserTypeShop}
	buyer := &identity.User{Type: identity.UserTypeBuyer}

	t.Run("orders containing the shop's listings", func(t *testing.T) {
		f := newOrderFixture()
		shop := &catalog.Shop{Name: "Связной"}
		shop.ID = 4
		f.users.On("FindByID", ctx, shared.ID(1)).Return(shopUser, nil)
		f.shops.On("FindByUserID", ctx, shared.ID(1)).Return(shop, nil)
		f.orders.On("ListPlacedByShop", ctx, shared.ID(4)).Return([]trade.Order{*basketWithItems(12, 5, priced(1, 1, 100))}, nil)

		got, err := f.service.ListShopOrders(ctx, 1)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, shared.ID(12), got[0].ID)
	})

	t.Run("shop without a catalog", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, shared.ID(1)).Return(shopUser, nil)
		f.shops.On("FindByUserID", ctx, shared.ID(1)).Return(nil, shared.ErrNotFound)

		got, err := f.service.ListShopOrders(ctx, 1)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("buyer", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, shared.ID(2)).Return(buyer, nil)

		_, err := f.service.ListShopOrders(ctx, 2)

		assert.ErrorIs(t, err, identity.ErrShopsOnly)
	})
}

func TestOrderService_ChangeState(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		f := newOrderFixture()
		order := basketWithItems(12, 5)
		order.State = trade.OrderStateNew
		f.orders.On("FindByID", ctx, shared.ID(12)).Return(order, nil)
		f.orders.On("Save", ctx, order).Return(nil)

		require.NoError(t, f.service.ChangeState(ctx, 12, trade.OrderStateConfirmed))

		assert.Equal(t, trade.OrderStateConfirmed, order.State)
		assert.Len(t, f.publisher.OfType(trade.EventTypeOrderStateChanged), 1)
	})

	t.Run("terminal state", func(t *testing.T) {
		f := newOrderFixture()
		order := basketWithItems(12, 5)
		order.State = trade.OrderStateDelivered
		f.orders.On("FindByID", ctx, shared.ID(12)).Return(order, nil)

		err := f.service.ChangeState(ctx, 12, trade.OrderStateNew)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", ctx, shared.ID(12)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.service.ChangeState(ctx, 12, trade.OrderStateSent), ErrOrderNotFound)
	})
}
