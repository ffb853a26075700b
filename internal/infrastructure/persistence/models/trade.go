package models

import (
	"github.com/marketplace/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate. The partial
// unique index keeps at most one basket per user.
type OrderModel struct {
	BaseModel
	UserID    uint64           `gorm:"not null;index;uniqueIndex:idx_orders_user_basket,where:state = 'basket'"`
	ContactID *uint64          `gorm:"index"`
	State     trade.OrderState `gorm:"type:varchar(15);not null"`
	User      *UserModel       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Contact   *ContactModel    `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order together with
// the preloaded items and contact.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.aggregateRoot(),
		UserID:            m.UserID,
		ContactID:         m.ContactID,
		State:             m.State,
		Items:             make([]trade.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		order.Items = append(order.Items, *m.Items[i].ToDomain())
	}
	if m.Contact != nil {
		order.Contact = m.Contact.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
// Items are persisted through the order item repository.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.ContactID = o.ContactID
	m.State = o.State
}

// OrderItemModel is the persistence model for OrderItem.
type OrderItemModel struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement"`
	OrderID       uint64            `gorm:"not null;uniqueIndex:idx_order_items_order_product,priority:1"`
	ProductInfoID uint64            `gorm:"not null;index;uniqueIndex:idx_order_items_order_product,priority:2"`
	Quantity      int               `gorm:"not null"`
	ProductInfo   *ProductInfoModel `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	item := &trade.OrderItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ProductInfoID: m.ProductInfoID,
		Quantity:      m.Quantity,
	}
	if m.ProductInfo != nil {
		item.ProductInfo = m.ProductInfo.ToDomain()
	}
	return item
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *trade.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductInfoID = i.ProductInfoID
	m.Quantity = i.Quantity
}

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []any {
	return []any{
		&UserModel{},
		&ContactModel{},
		&ConfirmEmailTokenModel{},
		&PasswordResetTokenModel{},
		&ShopModel{},
		&CategoryModel{},
		&ShopCategoryModel{},
		&ProductModel{},
		&ParameterModel{},
		&ProductInfoModel{},
		&ProductParameterModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
