package handler

import (
	"context"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*identityapp.UserResponse)
	return resp, args.Error(1)
}

func (m *mockAccounts) ConfirmEmail(ctx context.Context, email, key string) error {
	return m.Called(ctx, email, key).Error(0)
}

func (m *mockAccounts) Login(ctx context.Context, email, password string) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*identityapp.LoginResult)
	return resp, args.Error(1)
}

func (m *mockAccounts) GetDetails(ctx context.Context, userID shared.ID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*identityapp.UserResponse)
	return resp, args.Error(1)
}

func (m *mockAccounts) UpdateDetails(ctx context.Context, userID shared.ID, req identityapp.UpdateDetailsRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockAccounts) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAccounts) ConfirmPasswordReset(ctx context.Context, key, password string) error {
	return m.Called(ctx, key, password).Error(0)
}

type mockContacts struct{ mock.Mock }

func (m *mockContacts) List(ctx context.Context, userID shared.ID) ([]identityapp.ContactResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]identityapp.ContactResponse)
	return resp, args.Error(1)
}

func (m *mockContacts) Create(ctx context.Context, userID shared.ID, fields identity.ContactFields) (*identityapp.ContactResponse, error) {
	args := m.Called(ctx, userID, fields)
	resp, _ := args.Get(0).(*identityapp.ContactResponse)
	return resp, args.Error(1)
}

func (m *mockContacts) Update(ctx context.Context, userID, id shared.ID, fields identity.ContactFields) error {
	return m.Called(ctx, userID, id, fields).Error(0)
}

func (m *mockContacts) Delete(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockPartners struct{ mock.Mock }

func (m *mockPartners) UpdatePriceList(ctx context.Context, userID shared.ID, rawURL string) (*catalogapp.IngestResult, error) {
	args := m.Called(ctx, userID, rawURL)
	resp, _ := args.Get(0).(*catalogapp.IngestResult)
	return resp, args.Error(1)
}

func (m *mockPartners) GetState(ctx context.Context, userID shared.ID) (*catalogapp.ShopResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*catalogapp.ShopResponse)
	return resp, args.Error(1)
}

func (m *mockPartners) SetState(ctx context.Context, userID shared.ID, raw string) error {
	return m.Called(ctx, userID, raw).Error(0)
}

type mockQueries struct{ mock.Mock }

func (m *mockQueries) ListCategories(ctx context.Context, page shared.Page) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, page)
	resp, _ := args.Get(0).([]catalogapp.CategoryResponse)
	return resp, args.Error(1)
}

func (m *mockQueries) ListShops(ctx context.Context, page shared.Page) ([]catalogapp.ShopResponse, error) {
	args := m.Called(ctx, page)
	resp, _ := args.Get(0).([]catalogapp.ShopResponse)
	return resp, args.Error(1)
}

func (m *mockQueries) ListProducts(ctx context.Context, q catalogapp.ProductListQuery) ([]catalogapp.ProductInfoResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).([]catalogapp.ProductInfoResponse)
	return resp, args.Error(1)
}

type mockBaskets struct{ mock.Mock }

func (m *mockBaskets) GetBasket(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]tradeapp.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockBaskets) AddItems(ctx context.Context, userID shared.ID, items []tradeapp.BasketItemInput) (int, error) {
	args := m.Called(ctx, userID, items)
	return args.Int(0), args.Error(1)
}

func (m *mockBaskets) UpdateItems(ctx context.Context, userID shared.ID, items []tradeapp.BasketItemUpdate) (int64, error) {
	args := m.Called(ctx, userID, items)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBaskets) RemoveItems(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) PlaceOrder(ctx context.Context, userID, orderID, contactID shared.ID) error {
	return m.Called(ctx, userID, orderID, contactID).Error(0)
}

func (m *mockOrders) ListOrders(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]tradeapp.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrders) ListShopOrders(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]tradeapp.OrderResponse)
	return resp, args.Error(1)
}
