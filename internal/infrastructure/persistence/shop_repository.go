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

// GormShopRepository implements catalog.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByUserID finds the shop bound to a user
func (r *GormShopRepository) FindByUserID(ctx context.Context, userID shared.ID) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ListActive lists shops that accept orders, ordered by name descending
func (r *GormShopRepository) ListActive(ctx context.Context, page shared.Page) ([]catalog.Shop, error) {
	page = page.Normalize()
	var rows []models.ShopModel
	if err := r.db.WithContext(ctx).
		Where("state = ?", true).
		Order("name DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	shops := make([]catalog.Shop, 0, len(rows))
	for i := range rows {
		shops = append(shops, *rows[i].ToDomain())
	}
	return shops, nil
}

// GetOrCreate resolves the shop with the given name bound to the user.
// A name or account already taken by a different shop is an integrity error.
func (r *GormShopRepository) GetOrCreate(ctx context.Context, name string, userID shared.ID) (*catalog.Shop, error) {
	shop, err := catalog.NewShop(name, &userID)
	if err != nil {
		return nil, err
	}
	model := &models.ShopModel{}
	model.FromDomain(shop)
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, translateError(err)
	}

	var found models.ShopModel
	err = db.Where("name = ? AND user_id = ?", shop.Name, userID).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewIntegrityError("shop \"" + shop.Name + "\" is bound to another account")
	}
	if err != nil {
		return nil, err
	}
	return found.ToDomain(), nil
}

// LockForUpdate locks the shop row until the surrounding transaction ends
func (r *GormShopRepository) LockForUpdate(ctx context.Context, id shared.ID) error {
	var model models.ShopModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&model, "id = ?", id).Error
	return translateError(err)
}

// Save updates the mutable shop columns
func (r *GormShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	model := &models.ShopModel{}
	model.FromDomain(shop)
	result := r.db.WithContext(ctx).Model(&models.ShopModel{}).
		Where("id = ?", shop.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"url":        model.URL,
			"state":      model.State,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormShopRepository implements catalog.ShopRepository
var _ catalog.ShopRepository = (*GormShopRepository)(nil)
