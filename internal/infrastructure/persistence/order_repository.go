package persistence

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetOrCreateBasket resolves the user's basket. Concurrent callers collide
// on the partial unique index and fall through to the fetch.
func (r *GormOrderRepository) GetOrCreateBasket(ctx context.Context, userID shared.ID) (*trade.Order, error) {
	basket := trade.NewBasket(userID)
	model := &models.OrderModel{}
	model.FromDomain(basket)
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return nil, translateError(err)
	}
	return r.FindBasket(ctx, userID)
}

// FindBasket loads the user's basket with its items
func (r *GormOrderRepository) FindBasket(ctx context.Context, userID shared.ID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadOrderItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND state = ?", userID, trade.OrderStateBasket).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUser loads an order only if it belongs to the user
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id shared.ID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadOrderItems(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByID loads an order with items and contact
func (r *GormOrderRepository) FindByID(ctx context.Context, id shared.ID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadOrderItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save persists state and contact changes. The update only applies while
// the stored row is still in the state the order was loaded in, so two
// concurrent transitions of one order cannot both succeed.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}
	db := r.db.WithContext(ctx)
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND state = ?", order.ID, order.StoredState()).
		Updates(map[string]any{
			"state":      order.State,
			"contact_id": order.ContactID,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return translateError(err)
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInvalidState
}

// ListPlacedByUser lists the user's non-basket orders, newest first
func (r *GormOrderRepository) ListPlacedByUser(ctx context.Context, userID shared.ID) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := preloadOrderItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND state <> ?", userID, trade.OrderStateBasket).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

// ListPlacedByShop lists non-basket orders with at least one listing of
// the shop. Only that shop's items are loaded.
func (r *GormOrderRepository) ListPlacedByShop(ctx context.Context, shopID shared.ID) ([]trade.Order, error) {
	db := r.db.WithContext(ctx)
	shopListings := db.Model(&models.ProductInfoModel{}).Select("id").Where("shop_id = ?", shopID)
	shopOrders := db.Model(&models.OrderItemModel{}).Select("order_id").Where("product_info_id IN (?)", shopListings)

	var rows []models.OrderModel
	if err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("product_info_id IN (?)", shopListings).Order("order_items.id")
		}).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters.Parameter").
		Preload("Contact").
		Where("state <> ? AND id IN (?)", trade.OrderStateBasket, shopOrders).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(rows), nil
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_items.id") }).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters.Parameter").
		Preload("Contact")
}

func toDomainOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders
}

// GormOrderItemRepository implements trade.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// Create inserts a line item
func (r *GormOrderItemRepository) Create(ctx context.Context, item *trade.OrderItem) error {
	model := &models.OrderItemModel{}
	model.FromDomain(item)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	item.ID = model.ID
	return nil
}

// UpdateQuantity sets the quantity of a line of the given order
func (r *GormOrderItemRepository) UpdateQuantity(ctx context.Context, orderID, itemID shared.ID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.OrderItemModel{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("quantity", quantity)
	return result.RowsAffected, translateError(result.Error)
}

// DeleteByIDs deletes lines of the given order
func (r *GormOrderItemRepository) DeleteByIDs(ctx context.Context, orderID shared.ID, ids []shared.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&models.OrderItemModel{})
	return result.RowsAffected, translateError(result.Error)
}

// Ensure the GORM repositories implement the trade interfaces
var (
	_ trade.OrderRepository     = (*GormOrderRepository)(nil)
	_ trade.OrderItemRepository = (*GormOrderItemRepository)(nil)
)
