package persistence

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetOrCreate resolves a product by (name, category)
func (r *GormProductRepository) GetOrCreate(ctx context.Context, name string, categoryID shared.ID) (*catalog.Product, error) {
	product, err := catalog.NewProduct(name, categoryID)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	model := &models.ProductModel{Name: product.Name, CategoryID: product.CategoryID}
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, translateError(err)
	}

	var found models.ProductModel
	if err := db.Where("name = ? AND category_id = ?", product.Name, product.CategoryID).First(&found).Error; err != nil {
		return nil, translateError(err)
	}
	return found.ToDomain(), nil
}

// GormParameterRepository implements catalog.ParameterRepository using GORM
type GormParameterRepository struct {
	db *gorm.DB
}

// NewGormParameterRepository creates a new GormParameterRepository
func NewGormParameterRepository(db *gorm.DB) *GormParameterRepository {
	return &GormParameterRepository{db: db}
}

// GetOrCreate resolves a parameter by name
func (r *GormParameterRepository) GetOrCreate(ctx context.Context, name string) (*catalog.Parameter, error) {
	db := r.db.WithContext(ctx)
	model := &models.ParameterModel{Name: name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, translateError(err)
	}

	var found models.ParameterModel
	if err := db.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, translateError(err)
	}
	return found.ToDomain(), nil
}

// GormProductParameterRepository implements catalog.ProductParameterRepository using GORM
type GormProductParameterRepository struct {
	db *gorm.DB
}

// NewGormProductParameterRepository creates a new GormProductParameterRepository
func NewGormProductParameterRepository(db *gorm.DB) *GormProductParameterRepository {
	return &GormProductParameterRepository{db: db}
}

// Create inserts a parameter value for a listing
func (r *GormProductParameterRepository) Create(ctx context.Context, pp *catalog.ProductParameter) error {
	model := &models.ProductParameterModel{}
	model.FromDomain(pp)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	pp.ID = model.ID
	return nil
}

// GormProductInfoRepository implements catalog.ProductInfoRepository using GORM
type GormProductInfoRepository struct {
	db *gorm.DB
}

// NewGormProductInfoRepository creates a new GormProductInfoRepository
func NewGormProductInfoRepository(db *gorm.DB) *GormProductInfoRepository {
	return &GormProductInfoRepository{db: db}
}

// Create inserts a listing
func (r *GormProductInfoRepository) Create(ctx context.Context, info *catalog.ProductInfo) error {
	model := &models.ProductInfoModel{}
	model.FromDomain(info)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	info.ID = model.ID
	return nil
}

// DeleteByShop removes every listing of a shop. Parameter values are
// deleted explicitly; order items referencing the listings go by cascade.
func (r *GormProductInfoRepository) DeleteByShop(ctx context.Context, shopID shared.ID) (int64, error) {
	db := r.db.WithContext(ctx)
	listings := db.Model(&models.ProductInfoModel{}).Select("id").Where("shop_id = ?", shopID)
	if err := db.Where("product_info_id IN (?)", listings).Delete(&models.ProductParameterModel{}).Error; err != nil {
		return 0, translateError(err)
	}
	result := db.Where("shop_id = ?", shopID).Delete(&models.ProductInfoModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// List returns listings of shops that accept orders
func (r *GormProductInfoRepository) List(ctx context.Context, filter catalog.ProductInfoFilter) ([]catalog.ProductInfo, error) {
	page := filter.Page.Normalize()
	query := preloadProductInfo(r.db.WithContext(ctx)).
		Joins("JOIN shops ON shops.id = product_infos.shop_id AND shops.state = ?", true)
	if filter.ShopID != nil {
		query = query.Where("product_infos.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN products ON products.id = product_infos.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}

	var rows []models.ProductInfoModel
	if err := query.
		Order("product_infos.id").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	infos := make([]catalog.ProductInfo, 0, len(rows))
	for i := range rows {
		infos = append(infos, *rows[i].ToDomain())
	}
	return infos, nil
}

func preloadProductInfo(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters", func(tx *gorm.DB) *gorm.DB { return tx.Order("product_parameters.id") }).
		Preload("Parameters.Parameter")
}

// Ensure the GORM repositories implement the catalog interfaces
var (
	_ catalog.ProductRepository          = (*GormProductRepository)(nil)
	_ catalog.ParameterRepository        = (*GormParameterRepository)(nil)
	_ catalog.ProductParameterRepository = (*GormProductParameterRepository)(nil)
	_ catalog.ProductInfoRepository      = (*GormProductInfoRepository)(nil)
)
