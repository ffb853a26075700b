package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Get-or-create methods resolve a natural key to a stored row, inserting
// it when absent. Concurrent callers racing on the same key all receive
// the same row.

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	// FindByUserID finds the shop bound to a user account
	FindByUserID(ctx context.Context, userID shared.ID) (*Shop, error)

	// ListActive lists shops that accept orders
	ListActive(ctx context.Context, page shared.Page) ([]Shop, error)

	// GetOrCreate resolves a shop by name and binds it to the user
	GetOrCreate(ctx context.Context, name string, userID shared.ID) (*Shop, error)

	// LockForUpdate takes a row lock on the shop for the current transaction
	LockForUpdate(ctx context.Context, id shared.ID) error

	Save(ctx context.Context, shop *Shop) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	List(ctx context.Context, page shared.Page) ([]Category, error)

	// GetOrCreate resolves a category by (id, name)
	GetOrCreate(ctx context.Context, id shared.ID, name string) (*Category, error)

	// AddShop associates a shop with a category; repeated calls are no-ops
	AddShop(ctx context.Context, categoryID, shopID shared.ID) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// GetOrCreate resolves a product by (name, category)
	GetOrCreate(ctx context.Context, name string, categoryID shared.ID) (*Product, error)
}

// ProductInfoRepository defines the interface for shop listings
type ProductInfoRepository interface {
	Create(ctx context.Context, info *ProductInfo) error

	// DeleteByShop removes all listings of a shop and their parameter values
	DeleteByShop(ctx context.Context, shopID shared.ID) (int64, error)

	// List returns listings of shops that accept orders
	List(ctx context.Context, filter ProductInfoFilter) ([]ProductInfo, error)
}

// ParameterRepository defines the interface for parameter persistence
type ParameterRepository interface {
	// GetOrCreate resolves a parameter by name
	GetOrCreate(ctx context.Context, name string) (*Parameter, error)
}

// ProductParameterRepository defines the interface for parameter values
type ProductParameterRepository interface {
	Create(ctx context.Context, pp *ProductParameter) error
}
