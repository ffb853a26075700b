package trade

import (
	"time"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderState represents the lifecycle state of an order
type OrderState string

const (
	OrderStateBasket    OrderState = "basket"
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

var stateLabels = map[OrderState]string{
	OrderStateBasket:    "Статус корзины",
	OrderStateNew:       "Новый",
	OrderStateConfirmed: "Подтвержден",
	OrderStateAssembled: "Собран",
	OrderStateSent:      "Отправлен",
	OrderStateDelivered: "Доставлен",
	OrderStateCanceled:  "Отменен",
}

// IsValid checks if the state is a known OrderState
func (s OrderState) IsValid() bool {
	_, ok := stateLabels[s]
	return ok
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// Label returns the human-readable name shown to customers
func (s OrderState) Label() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCanceled
}

// CanTransitionTo checks if the state can transition to the target state.
// States only move forward one step; cancellation is allowed from any
// non-terminal state.
func (s OrderState) CanTransitionTo(target OrderState) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStateCanceled {
		return true
	}
	switch s {
	case OrderStateBasket:
		return target == OrderStateNew
	case OrderStateNew:
		return target == OrderStateConfirmed
	case OrderStateConfirmed:
		return target == OrderStateAssembled
	case OrderStateAssembled:
		return target == OrderStateSent
	case OrderStateSent:
		return target == OrderStateDelivered
	}
	return false
}

// OrderItem is one line of an order. (OrderID, ProductInfoID) identifies it.
type OrderItem struct {
	ID            shared.ID
	OrderID       shared.ID
	ProductInfoID shared.ID
	Quantity      int

	ProductInfo *catalog.ProductInfo
}

// NewOrderItem validates a line item before it is stored
func NewOrderItem(orderID, productInfoID shared.ID, quantity int) (*OrderItem, error) {
	if productInfoID == 0 {
		return nil, shared.NewDomainError("INVALID_ITEM", "product_info is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &OrderItem{OrderID: orderID, ProductInfoID: productInfoID, Quantity: quantity}, nil
}

// Amount returns quantity times unit price; zero when the listing is not loaded
func (i *OrderItem) Amount() decimal.Decimal {
	if i.ProductInfo == nil {
		return decimal.Zero
	}
	return i.ProductInfo.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a buyer's basket and placed orders
type Order struct {
	shared.BaseAggregateRoot
	UserID    shared.ID
	ContactID *shared.ID
	State     OrderState
	Items     []OrderItem

	Contact *identity.Contact
}

// NewBasket creates the implicit shopping cart of a user
func NewBasket(userID shared.ID) *Order {
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		State:             OrderStateBasket,
		Items:             make([]OrderItem, 0),
	}
}

// IsBasket reports whether the order is still a shopping cart
func (o *Order) IsBasket() bool {
	return o.State == OrderStateBasket
}

// IsOwnedBy reports whether the order belongs to the user
func (o *Order) IsOwnedBy(userID shared.ID) bool {
	return o.UserID == userID
}

// Total sums quantity times price over the loaded items. It is a view
// projection and never stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount())
	}
	return total
}

// Checkout places the basket with a delivery contact
func (o *Order) Checkout(contactID shared.ID) error {
	if !o.IsBasket() {
		return shared.NewDomainError(shared.CodeInvalidState, "Заказ уже оформлен")
	}
	if contactID == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Не указаны все необходимые аргументы")
	}
	o.ContactID = &contactID
	return o.TransitionTo(OrderStateNew)
}

// StoredState is the state the order was loaded in: the origin of the
// first pending state change, or the current state when nothing is pending.
func (o *Order) StoredState() OrderState {
	for _, e := range o.GetDomainEvents() {
		if changed, ok := e.(*OrderStateChangedEvent); ok {
			return changed.PreviousState
		}
	}
	return o.State
}

// TransitionTo moves the order to the target state
func (o *Order) TransitionTo(target OrderState) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown order state: "+string(target))
	}
	if !o.State.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot change order state from "+string(o.State)+" to "+string(target))
	}
	previous := o.State
	o.State = target
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderStateChangedEvent(o, previous))
	return nil
}
