package models

import (
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ShopModel is the persistence model for the Shop aggregate.
type ShopModel struct {
	BaseModel
	Name   string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_shops_name"`
	URL    *string `gorm:"type:varchar(200)"`
	UserID *uint64 `gorm:"uniqueIndex:idx_shops_user_id"`
	State  bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop.
func (m *ShopModel) ToDomain() *catalog.Shop {
	shop := &catalog.Shop{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		UserID:            m.UserID,
		State:             m.State,
	}
	if m.URL != nil {
		shop.URL = *m.URL
	}
	return shop
}

// FromDomain populates the persistence model from a domain Shop.
func (m *ShopModel) FromDomain(s *catalog.Shop) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.UserID = s.UserID
	m.State = s.State
	m.URL = nil
	if s.URL != "" {
		url := s.URL
		m.URL = &url
	}
}

// CategoryModel is the persistence model for Category. Ids are assigned by
// partner price lists.
type CategoryModel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{ID: m.ID, Name: m.Name, ShopIDs: make([]uint64, 0)}
}

// ShopCategoryModel is the shop to category association.
type ShopCategoryModel struct {
	ShopID     uint64         `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint64         `gorm:"primaryKey;autoIncrement:false"`
	Shop       *ShopModel     `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ShopCategoryModel) TableName() string {
	return "shop_categories"
}

// ProductModel is the persistence model for Product.
type ProductModel struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	Name       string         `gorm:"type:varchar(80);not null;uniqueIndex:idx_products_name_category,priority:1"`
	CategoryID uint64         `gorm:"not null;uniqueIndex:idx_products_name_category,priority:2"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{ID: m.ID, Name: m.Name, CategoryID: m.CategoryID}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	return p
}

// ProductInfoModel is the persistence model for a shop listing.
type ProductInfoModel struct {
	ID         uint64                  `gorm:"primaryKey;autoIncrement"`
	ProductID  uint64                  `gorm:"not null;uniqueIndex:idx_product_infos_product_shop_ext,priority:1"`
	ShopID     uint64                  `gorm:"not null;index;uniqueIndex:idx_product_infos_product_shop_ext,priority:2"`
	ExternalID uint64                  `gorm:"not null;uniqueIndex:idx_product_infos_product_shop_ext,priority:3"`
	Model      string                  `gorm:"type:varchar(80);not null;default:''"`
	Quantity   int                     `gorm:"not null;default:0"`
	Price      decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	PriceRRC   decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	Product    *ProductModel           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Shop       *ShopModel              `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	Parameters []ProductParameterModel `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductInfoModel) TableName() string {
	return "product_infos"
}

// ToDomain converts the persistence model to a domain ProductInfo,
// including whatever associations were preloaded.
func (m *ProductInfoModel) ToDomain() *catalog.ProductInfo {
	info := &catalog.ProductInfo{
		ID:         m.ID,
		ProductID:  m.ProductID,
		ShopID:     m.ShopID,
		ExternalID: m.ExternalID,
		Model:      m.Model,
		Quantity:   m.Quantity,
		Price:      m.Price,
		PriceRRC:   m.PriceRRC,
		Parameters: make([]catalog.ProductParameter, 0, len(m.Parameters)),
	}
	if m.Product != nil {
		info.Product = m.Product.ToDomain()
	}
	if m.Shop != nil {
		info.Shop = m.Shop.ToDomain()
	}
	for i := range m.Parameters {
		info.Parameters = append(info.Parameters, *m.Parameters[i].ToDomain())
	}
	return info
}

// FromDomain populates the persistence model from a domain ProductInfo.
func (m *ProductInfoModel) FromDomain(p *catalog.ProductInfo) {
	m.ID = p.ID
	m.ProductID = p.ProductID
	m.ShopID = p.ShopID
	m.ExternalID = p.ExternalID
	m.Model = p.Model
	m.Quantity = p.Quantity
	m.Price = p.Price
	m.PriceRRC = p.PriceRRC
}

// ParameterModel is the persistence model for Parameter.
type ParameterModel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(40);not null;uniqueIndex:idx_parameters_name"`
}

// TableName returns the table name for GORM
func (ParameterModel) TableName() string {
	return "parameters"
}

// ToDomain converts the persistence model to a domain Parameter.
func (m *ParameterModel) ToDomain() *catalog.Parameter {
	return &catalog.Parameter{ID: m.ID, Name: m.Name}
}

// ProductParameterModel is the persistence model for a listing attribute value.
type ProductParameterModel struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	ProductInfoID uint64          `gorm:"not null;uniqueIndex:idx_product_parameters_info_param,priority:1"`
	ParameterID   uint64          `gorm:"not null;uniqueIndex:idx_product_parameters_info_param,priority:2"`
	Value         string          `gorm:"type:varchar(100);not null"`
	Parameter     *ParameterModel `gorm:"foreignKey:ParameterID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}

// ToDomain converts the persistence model to a domain ProductParameter.
func (m *ProductParameterModel) ToDomain() *catalog.ProductParameter {
	pp := &catalog.ProductParameter{
		ID:            m.ID,
		ProductInfoID: m.ProductInfoID,
		ParameterID:   m.ParameterID,
		Value:         m.Value,
	}
	if m.Parameter != nil {
		pp.Parameter = m.Parameter.ToDomain()
	}
	return pp
}

// FromDomain populates the persistence model from a domain ProductParameter.
func (m *ProductParameterModel) FromDomain(p *catalog.ProductParameter) {
	m.ID = p.ID
	m.ProductInfoID = p.ProductInfoID
	m.ParameterID = p.ParameterID
	m.Value = p.Value
}
