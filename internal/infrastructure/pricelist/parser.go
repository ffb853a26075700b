package pricelist

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CodeInvalidPriceList marks documents that cannot be decoded
const CodeInvalidPriceList = catalog.CodeInvalidPriceList

// YAMLParser decodes the partner YAML format:
//
//	shop: <name>
//	categories: [{id, name}]
//	goods: [{id, category, model, name, price, price_rrc, quantity, parameters: {name: value}}]
type YAMLParser struct{}

// NewYAMLParser creates a parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

type document struct {
	Shop       string        `yaml:"shop"`
	Categories []categoryDoc `yaml:"categories"`
	Goods      []goodDoc     `yaml:"goods"`
}

type categoryDoc struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
}

type goodDoc struct {
	ID         uint64     `yaml:"id"`
	Category   uint64     `yaml:"category"`
	Model      string     `yaml:"model"`
	Name       string     `yaml:"name"`
	Price      money      `yaml:"price"`
	PriceRRC   money      `yaml:"price_rrc"`
	Quantity   int        `yaml:"quantity"`
	Parameters parameters `yaml:"parameters"`
}

// money accepts integer, float and quoted prices without going through float64
type money struct {
	decimal.Decimal
}

func (m *money) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a number", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid price %q", node.Line, node.Value)
	}
	m.Decimal = d
	return nil
}

// parameters keeps the mapping in document order and renders scalar
// values as written.
type parameters []catalog.PriceListParameter

func (p *parameters) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: parameter %q must be a scalar", value.Line, key.Value)
		}
		*p = append(*p, catalog.PriceListParameter{Name: key.Value, Value: value.Value})
	}
	return nil
}

// Parse decodes a document. Unknown keys are ignored.
func (YAMLParser) Parse(data []byte) (*catalog.PriceList, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalid("empty document")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalid(err.Error())
	}

	list := &catalog.PriceList{
		Shop:       strings.TrimSpace(doc.Shop),
		Categories: make([]catalog.PriceListCategory, 0, len(doc.Categories)),
		Goods:      make([]catalog.PriceListGood, 0, len(doc.Goods)),
	}
	for _, c := range doc.Categories {
		list.Categories = append(list.Categories, catalog.PriceListCategory{
			ID:   c.ID,
			Name: strings.TrimSpace(c.Name),
		})
	}
	for _, g := range doc.Goods {
		list.Goods = append(list.Goods, catalog.PriceListGood{
			ExternalID: g.ID,
			Category:   g.Category,
			Model:      g.Model,
			Name:       strings.TrimSpace(g.Name),
			Price:      g.Price.Decimal,
			PriceRRC:   g.PriceRRC.Decimal,
			Quantity:   g.Quantity,
			Parameters: []catalog.PriceListParameter(g.Parameters),
		})
	}
	return list, nil
}

func invalid(reason string) error {
	return shared.NewDomainError(CodeInvalidPriceList, "Invalid price list: "+reason)
}
