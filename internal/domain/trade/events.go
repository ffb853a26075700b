package trade

import "github.com/marketplace/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderStateChanged = "OrderStateChanged"
)

// OrderStateChangedEvent is raised whenever an order moves to a new state
type OrderStateChangedEvent struct {
	shared.BaseDomainEvent
	OrderID       shared.ID  `json:"order_id"`
	UserID        shared.ID  `json:"user_id"`
	PreviousState OrderState `json:"previous_state"`
	State         OrderState `json:"state"`
}

// NewOrderStateChangedEvent creates a new OrderStateChangedEvent
func NewOrderStateChangedEvent(order *Order, previous OrderState) *OrderStateChangedEvent {
	return &OrderStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStateChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		PreviousState:   previous,
		State:           order.State,
	}
}
