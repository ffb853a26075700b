package catalog

import (
	"fmt"
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CodeInvalidPriceList marks price-list documents that cannot be imported
const CodeInvalidPriceList = "INVALID_PRICE_LIST"

// PriceList is a partner's catalog document after parsing
type PriceList struct {
	Shop       string
	Categories []PriceListCategory
	Goods      []PriceListGood
}

// PriceListCategory is a category entry of a price list
type PriceListCategory struct {
	ID   shared.ID
	Name string
}

// PriceListGood is a goods entry of a price list
type PriceListGood struct {
	ExternalID uint64
	Category   shared.ID
	Model      string
	Name       string
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal
	Quantity   int
	Parameters []PriceListParameter
}

// PriceListParameter is one name/value attribute of a good, in document order
type PriceListParameter struct {
	Name  string
	Value string
}

// Validate checks the structural requirements of a parsed document
func (p *PriceList) Validate() error {
	if strings.TrimSpace(p.Shop) == "" {
		return shared.NewDomainError(CodeInvalidPriceList, "Price list has no shop name")
	}
	for i, c := range p.Categories {
		if c.ID == 0 || strings.TrimSpace(c.Name) == "" {
			return shared.NewDomainError(CodeInvalidPriceList, fmt.Sprintf("categories[%d]: id and name are required", i))
		}
	}
	for i, g := range p.Goods {
		if strings.TrimSpace(g.Name) == "" || g.Category == 0 {
			return shared.NewDomainError(CodeInvalidPriceList, fmt.Sprintf("goods[%d]: name and category are required", i))
		}
		for _, param := range g.Parameters {
			if strings.TrimSpace(param.Name) == "" {
				return shared.NewDomainError(CodeInvalidPriceList, fmt.Sprintf("goods[%d]: parameter name cannot be empty", i))
			}
		}
	}
	return nil
}

// ParameterCount returns the number of parameter values in the document
func (p *PriceList) ParameterCount() int {
	n := 0
	for _, g := range p.Goods {
		n += len(g.Parameters)
	}
	return n
}
