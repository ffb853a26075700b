package trade

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// GetOrCreateBasket resolves the user's basket, creating it when absent.
	// At most one basket exists per user.
	GetOrCreateBasket(ctx context.Context, userID shared.ID) (*Order, error)

	// FindBasket loads the user's basket with its items
	FindBasket(ctx context.Context, userID shared.ID) (*Order, error)

	// FindByIDForUser loads an order only if it belongs to the user
	FindByIDForUser(ctx context.Context, userID, id shared.ID) (*Order, error)

	FindByID(ctx context.Context, id shared.ID) (*Order, error)

	// Save persists state and contact changes
	Save(ctx context.Context, order *Order) error

	// ListPlacedByUser lists the user's non-basket orders with items, newest first
	ListPlacedByUser(ctx context.Context, userID shared.ID) ([]Order, error)

	// ListPlacedByShop lists non-basket orders containing the shop's
	// listings; each order carries only that shop's items
	ListPlacedByShop(ctx context.Context, shopID shared.ID) ([]Order, error)
}

// OrderItemRepository defines the interface for order lines
type OrderItemRepository interface {
	// Create inserts a line; a duplicate (order, product_info) pair or an
	// unknown listing yields an integrity error
	Create(ctx context.Context, item *OrderItem) error

	// UpdateQuantity sets the quantity of a line of the given order and
	// returns the number of rows changed
	UpdateQuantity(ctx context.Context, orderID, itemID shared.ID, quantity int) (int64, error)

	// DeleteByIDs deletes lines of the given order and returns the count
	DeleteByIDs(ctx context.Context, orderID shared.ID, ids []shared.ID) (int64, error)
}
