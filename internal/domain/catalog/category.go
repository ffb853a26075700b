package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxCategoryNameLength is the column width of categories.name
const MaxCategoryNameLength = 40

// Category groups products. Category ids come from partner price lists,
// so they are assigned by the document rather than by the store.
type Category struct {
	ID      shared.ID
	Name    string
	ShopIDs []shared.ID
}

// NewCategory validates a category as declared by a price list
func NewCategory(id shared.ID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if id == 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category id is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name cannot exceed 40 characters")
	}
	return &Category{ID: id, Name: name}, nil
}

// HasShop reports whether the category is associated with the shop
func (c *Category) HasShop(shopID shared.ID) bool {
	for _, id := range c.ShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}
