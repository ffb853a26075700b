package catalog

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a catalog item independent of any seller
type Product struct {
	ID         shared.ID
	Name       string
	CategoryID shared.ID
	Category   *Category
}

// NewProduct validates a product name within a category
func NewProduct(name string, categoryID shared.ID) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if categoryID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product category is required")
	}
	return &Product{Name: name, CategoryID: categoryID}, nil
}

// ProductInfo is a shop's priced, stocked listing of a product.
// (ProductID, ShopID, ExternalID) identifies it.
type ProductInfo struct {
	ID         shared.ID
	ProductID  shared.ID
	ShopID     shared.ID
	ExternalID uint64
	Model      string
	Quantity   int
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal

	Product    *Product
	Shop       *Shop
	Parameters []ProductParameter
}

// NewProductInfo validates a listing before it is stored
func NewProductInfo(productID, shopID shared.ID, externalID uint64, model string, quantity int, price, priceRRC decimal.Decimal) (*ProductInfo, error) {
	if productID == 0 || shopID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_INFO", "Product and shop are required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_INFO", "Quantity cannot be negative")
	}
	if price.IsNegative() || priceRRC.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_INFO", "Price cannot be negative")
	}
	return &ProductInfo{
		ProductID:  productID,
		ShopID:     shopID,
		ExternalID: externalID,
		Model:      model,
		Quantity:   quantity,
		Price:      price,
		PriceRRC:   priceRRC,
	}, nil
}

// Parameter is a named attribute shared across products
type Parameter struct {
	ID   shared.ID
	Name string
}

// ProductParameter is one attribute value of one listing.
// (ProductInfoID, ParameterID) identifies it.
type ProductParameter struct {
	ID            shared.ID
	ProductInfoID shared.ID
	ParameterID   shared.ID
	Parameter     *Parameter
	Value         string
}

// ProductInfoFilter narrows the public product listing
type ProductInfoFilter struct {
	ShopID     *shared.ID
	CategoryID *shared.ID
	Page       shared.Page
}
