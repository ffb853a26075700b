package catalog

import (
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IngestResult summarizes a completed price-list import
type IngestResult struct {
	ShopID     shared.ID `json:"shop_id"`
	Categories int       `json:"categories"`
	Goods      int       `json:"goods"`
	Parameters int       `json:"parameters"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID    shared.ID `json:"id"`
	Name  string    `json:"name"`
	URL   string    `json:"url,omitempty"`
	State bool      `json:"state"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   shared.ID `json:"id"`
	Name string    `json:"name"`
}

// ProductResponse is the shop-independent part of a listing
type ProductResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ProductParameterResponse is one attribute of a listing
type ProductParameterResponse struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// ProductInfoResponse represents a shop listing in API responses
type ProductInfoResponse struct {
	ID                shared.ID                  `json:"id"`
	Model             string                     `json:"model"`
	Product           ProductResponse            `json:"product"`
	Shop              shared.ID                  `json:"shop"`
	Quantity          int                        `json:"quantity"`
	Price             decimal.Decimal            `json:"price"`
	PriceRRC          decimal.Decimal            `json:"price_rrc"`
	ProductParameters []ProductParameterResponse `json:"product_parameters"`
}

// ProductListQuery filters the public product listing
type ProductListQuery struct {
	ShopID     *shared.ID
	CategoryID *shared.ID
	Limit      int
	Offset     int
}

// ToShopResponse converts a domain Shop to a response
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL, State: s.State}
}

// ToCategoryResponse converts a domain Category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// ToProductInfoResponse converts a loaded listing to a response
func ToProductInfoResponse(p *catalog.ProductInfo) ProductInfoResponse {
	resp := ProductInfoResponse{
		ID:                p.ID,
		Model:             p.Model,
		Shop:              p.ShopID,
		Quantity:          p.Quantity,
		Price:             p.Price,
		PriceRRC:          p.PriceRRC,
		ProductParameters: make([]ProductParameterResponse, 0, len(p.Parameters)),
	}
	if p.Product != nil {
		resp.Product.Name = p.Product.Name
		if p.Product.Category != nil {
			resp.Product.Category = p.Product.Category.Name
		}
	}
	for _, pp := range p.Parameters {
		name := ""
		if pp.Parameter != nil {
			name = pp.Parameter.Name
		}
		resp.ProductParameters = append(resp.ProductParameters, ProductParameterResponse{Parameter: name, Value: pp.Value})
	}
	return resp
}
