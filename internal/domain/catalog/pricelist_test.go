package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPriceList() *PriceList {
	return &PriceList{
		Shop:       "Связной",
		Categories: []PriceListCategory{{ID: 224, Name: "Смартфоны"}},
		Goods: []PriceListGood{{
			ExternalID: 4216292,
			Category:   224,
			Model:      "apple/iphone/xs-max",
			Name:       "Смартфон Apple iPhone XS Max 512GB (золотистый)",
			Price:      decimal.NewFromInt(110000),
			PriceRRC:   decimal.NewFromInt(116990),
			Quantity:   14,
			Parameters: []PriceListParameter{{Name: "Цвет", Value: "золотистый"}, {Name: "Диагональ (дюйм)", Value: "6.5"}},
		}},
	}
}

func TestPriceList_Validate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		p := validPriceList()
		require.NoError(t, p.Validate())
		assert.Equal(t, 2, p.ParameterCount())
	})

	t.Run("missing shop", func(t *testing.T) {
		p := validPriceList()
		p.Shop = ""
		assert.ErrorContains(t, p.Validate(), "no shop name")
	})

	t.Run("category without name", func(t *testing.T) {
		p := validPriceList()
		p.Categories[0].Name = " "
		assert.ErrorContains(t, p.Validate(), "categories[0]")
	})

	t.Run("good without category", func(t *testing.T) {
		p := validPriceList()
		p.Goods[0].Category = 0
		assert.ErrorContains(t, p.Validate(), "goods[0]")
	})

	t.Run("empty parameter name", func(t *testing.T) {
		p := validPriceList()
		p.Goods[0].Parameters = append(p.Goods[0].Parameters, PriceListParameter{Name: "", Value: "x"})
		assert.ErrorContains(t, p.Validate(), "parameter name")
	})
}

func TestNewProductInfo(t *testing.T) {
	info, err := NewProductInfo(1, 2, 42, "m", 3, decimal.NewFromInt(100), decimal.NewFromInt(120))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), info.ExternalID)

	_, err = NewProductInfo(1, 2, 42, "m", -1, decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = NewProductInfo(0, 2, 42, "m", 1, decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = NewProductInfo(1, 2, 42, "m", 1, decimal.NewFromInt(-5), decimal.Zero)
	assert.Error(t, err)
}
