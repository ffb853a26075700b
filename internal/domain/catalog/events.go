package catalog

import "github.com/marketplace/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeShop = "Shop"

// Event type constants
const (
	EventTypePriceListImported = "PriceListImported"
	EventTypeShopStateChanged  = "ShopStateChanged"
)

// PriceListImportedEvent is published after a shop's catalog was replaced
type PriceListImportedEvent struct {
	shared.BaseDomainEvent
	ShopID     shared.ID `json:"shop_id"`
	ShopName   string    `json:"shop_name"`
	URL        string    `json:"url"`
	Categories int       `json:"categories"`
	Goods      int       `json:"goods"`
	Parameters int       `json:"parameters"`
}

// NewPriceListImportedEvent creates a new PriceListImportedEvent
func NewPriceListImportedEvent(shop *Shop, categories, goods, parameters int) *PriceListImportedEvent {
	return &PriceListImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceListImported, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		ShopName:        shop.Name,
		URL:             shop.URL,
		Categories:      categories,
		Goods:           goods,
		Parameters:      parameters,
	}
}

// ShopStateChangedEvent is published when a shop starts or stops accepting orders
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopID shared.ID `json:"shop_id"`
	State  bool      `json:"state"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		State:           shop.State,
	}
}
