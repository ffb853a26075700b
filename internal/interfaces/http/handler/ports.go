package handler

import (
	"context"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AccountService is the account lifecycle used by UserHandler
type AccountService interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.UserResponse, error)
	ConfirmEmail(ctx context.Context, email, key string) error
	Login(ctx context.Context, email, password string) (*identityapp.LoginResult, error)
	GetDetails(ctx context.Context, userID shared.ID) (*identityapp.UserResponse, error)
	UpdateDetails(ctx context.Context, userID shared.ID, req identityapp.UpdateDetailsRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, key, password string) error
}

// ContactService manages delivery contacts
type ContactService interface {
	List(ctx context.Context, userID shared.ID) ([]identityapp.ContactResponse, error)
	Create(ctx context.Context, userID shared.ID, fields identity.ContactFields) (*identityapp.ContactResponse, error)
	Update(ctx context.Context, userID, id shared.ID, fields identity.ContactFields) error
	Delete(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error)
}

// PartnerService is the shop-facing catalog management
type PartnerService interface {
	UpdatePriceList(ctx context.Context, userID shared.ID, rawURL string) (*catalogapp.IngestResult, error)
	GetState(ctx context.Context, userID shared.ID) (*catalogapp.ShopResponse, error)
	SetState(ctx context.Context, userID shared.ID, raw string) error
}

// CatalogQueries serves the public catalog
type CatalogQueries interface {
	ListCategories(ctx context.Context, page shared.Page) ([]catalogapp.CategoryResponse, error)
	ListShops(ctx context.Context, page shared.Page) ([]catalogapp.ShopResponse, error)
	ListProducts(ctx context.Context, q catalogapp.ProductListQuery) ([]catalogapp.ProductInfoResponse, error)
}

// BasketService manages the caller's basket
type BasketService interface {
	GetBasket(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error)
	AddItems(ctx context.Context, userID shared.ID, items []tradeapp.BasketItemInput) (int, error)
	UpdateItems(ctx context.Context, userID shared.ID, items []tradeapp.BasketItemUpdate) (int64, error)
	RemoveItems(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error)
}

// OrderService places and lists orders
type OrderService interface {
	PlaceOrder(ctx context.Context, userID, orderID, contactID shared.ID) error
	ListOrders(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error)
	ListShopOrders(ctx context.Context, userID shared.ID) ([]tradeapp.OrderResponse, error)
}

var (
	_ AccountService = (*identityapp.AccountService)(nil)
	_ ContactService = (*identityapp.ContactService)(nil)
	_ PartnerService = (*catalogapp.PartnerService)(nil)
	_ CatalogQueries = (*catalogapp.QueryService)(nil)
	_ BasketService  = (*tradeapp.BasketService)(nil)
	_ OrderService   = (*tradeapp.OrderService)(nil)
)
