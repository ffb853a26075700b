package persistence

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List lists categories ordered by name descending
func (r *GormCategoryRepository) List(ctx context.Context, page shared.Page) ([]catalog.Category, error) {
	page = page.Normalize()
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Order("name DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].ToDomain())
	}
	return categories, nil
}

// GetOrCreate resolves the category (id, name). An id already used with a
// different name is an integrity error.
func (r *GormCategoryRepository) GetOrCreate(ctx context.Context, id shared.ID, name string) (*catalog.Category, error) {
	category, err := catalog.NewCategory(id, name)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	model := &models.CategoryModel{ID: category.ID, Name: category.Name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, translateError(err)
	}

	var found models.CategoryModel
	err = db.Where("id = ? AND name = ?", category.ID, category.Name).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewIntegrityError("category id is already used with another name")
	}
	if err != nil {
		return nil, err
	}
	return found.ToDomain(), nil
}

// AddShop associates a shop with a category; existing pairs are left as is
func (r *GormCategoryRepository) AddShop(ctx context.Context, categoryID, shopID shared.ID) error {
	link := &models.ShopCategoryModel{ShopID: shopID, CategoryID: categoryID}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
	return translateError(err)
}

// Ensure GormCategoryRepository implements catalog.CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
