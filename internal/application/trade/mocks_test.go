package trade

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) order(args mock.Arguments) (*trade.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrCreateBasket(ctx context.Context, userID shared.ID) (*trade.Order, error) {
	return m.order(m.Called(ctx, userID))
}

func (m *MockOrderRepository) FindBasket(ctx context.Context, userID shared.ID) (*trade.Order, error) {
	return m.order(m.Called(ctx, userID))
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, userID, id shared.ID) (*trade.Order, error) {
	return m.order(m.Called(ctx, userID, id))
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id shared.ID) (*trade.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) ListPlacedByUser(ctx context.Context, userID shared.ID) ([]trade.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) ListPlacedByShop(ctx context.Context, shopID shared.ID) ([]trade.Order, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).([]trade.Order), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *trade.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockOrderItemRepository) UpdateQuantity(ctx context.Context, orderID, itemID shared.ID, quantity int) (int64, error) {
	args := m.Called(ctx, orderID, itemID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderItemRepository) DeleteByIDs(ctx context.Context, orderID shared.ID, ids []shared.ID) (int64, error) {
	args := m.Called(ctx, orderID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *identity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, c *identity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) FindByIDForUser(ctx context.Context, userID, id shared.ID) (*identity.Contact, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Contact), args.Error(1)
}

func (m *MockContactRepository) ListByUser(ctx context.Context, userID shared.ID) ([]identity.Contact, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Contact), args.Error(1)
}

func (m *MockContactRepository) DeleteByIDsForUser(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id shared.ID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByUserID(ctx context.Context, userID shared.ID) (*catalog.Shop, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) ListActive(ctx context.Context, page shared.Page) ([]catalog.Shop, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) GetOrCreate(ctx context.Context, name string, userID shared.ID) (*catalog.Shop, error) {
	args := m.Called(ctx, name, userID)
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) LockForUpdate(ctx context.Context, id shared.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	return m.Called(ctx, shop).Error(0)
}

type recordingOrderMetrics struct {
	totals []decimal.Decimal
}

func (m *recordingOrderMetrics) RecordOrderPlaced(_ context.Context, total decimal.Decimal) {
	m.totals = append(m.totals, total)
}
