package trade

import (
	"time"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	appidentity "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// BasketItemInput is a listing to put into the basket
type BasketItemInput struct {
	ProductInfo shared.ID `json:"product_info"`
	Quantity    int       `json:"quantity"`
}

// BasketItemUpdate changes the quantity of a basket line
type BasketItemUpdate struct {
	ID       shared.ID `json:"id"`
	Quantity int       `json:"quantity"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          shared.ID                      `json:"id"`
	ProductInfo appcatalog.ProductInfoResponse `json:"product_info"`
	Quantity    int                            `json:"quantity"`
}

// OrderResponse represents an order or basket in API responses
type OrderResponse struct {
	ID           shared.ID                    `json:"id"`
	OrderedItems []OrderItemResponse          `json:"ordered_items"`
	State        trade.OrderState             `json:"state"`
	Dt           time.Time                    `json:"dt"`
	TotalSum     decimal.Decimal              `json:"total_sum"`
	Contact      *appidentity.ContactResponse `json:"contact"`
}

// ToOrderResponse converts a loaded order to a response. The total is
// computed from the loaded items.
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		OrderedItems: make([]OrderItemResponse, 0, len(o.Items)),
		State:        o.State,
		Dt:           o.CreatedAt,
		TotalSum:     o.Total(),
	}
	for i := range o.Items {
		item := OrderItemResponse{ID: o.Items[i].ID, Quantity: o.Items[i].Quantity}
		if o.Items[i].ProductInfo != nil {
			item.ProductInfo = appcatalog.ToProductInfoResponse(o.Items[i].ProductInfo)
		}
		resp.OrderedItems = append(resp.OrderedItems, item)
	}
	if o.Contact != nil {
		contact := appidentity.ToContactResponse(o.Contact)
		resp.Contact = &contact
	}
	return resp
}

func toOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
