package persistence

import (
	"context"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements identity.ContactRepository using GORM.
// Every query is scoped by user_id.
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create inserts a contact
func (r *GormContactRepository) Create(ctx context.Context, contact *identity.Contact) error {
	model := &models.ContactModel{}
	model.FromDomain(contact)
	if err := r.db.WithContext(ctx).Omit("User").Create(model).Error; err != nil {
		return translateError(err)
	}
	contact.ID = model.ID
	return nil
}

// Update saves a contact of its owner
func (r *GormContactRepository) Update(ctx context.Context, contact *identity.Contact) error {
	model := &models.ContactModel{}
	model.FromDomain(contact)
	result := r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("id = ? AND user_id = ?", contact.ID, contact.UserID).
		Select("city", "street", "house", "structure", "building", "apartment", "phone", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForUser finds a contact only if it belongs to the user
func (r *GormContactRepository) FindByIDForUser(ctx context.Context, userID, id shared.ID) (*identity.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ListByUser lists the user's contacts
func (r *GormContactRepository) ListByUser(ctx context.Context, userID shared.ID) ([]identity.Contact, error) {
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]identity.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, *rows[i].ToDomain())
	}
	return contacts, nil
}

// DeleteByIDsForUser deletes the user's contacts with the given ids
func (r *GormContactRepository) DeleteByIDsForUser(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.ContactModel{})
	return result.RowsAffected, translateError(result.Error)
}

// Ensure GormContactRepository implements identity.ContactRepository
var _ identity.ContactRepository = (*GormContactRepository)(nil)
