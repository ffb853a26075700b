package persistence

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. A taken email yields shared.ErrAlreadyExists.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := &models.UserModel{}
	model.FromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// Update saves an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := &models.UserModel{}
	model.FromDomain(user)
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Select("email", "password", "first_name", "last_name", "company", "position", "type", "is_active", "updated_at").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id shared.ID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks whether an account uses the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormConfirmEmailTokenRepository implements identity.ConfirmEmailTokenRepository
type GormConfirmEmailTokenRepository struct {
	db *gorm.DB
}

// NewGormConfirmEmailTokenRepository creates a new GormConfirmEmailTokenRepository
func NewGormConfirmEmailTokenRepository(db *gorm.DB) *GormConfirmEmailTokenRepository {
	return &GormConfirmEmailTokenRepository{db: db}
}

// Create stores a token
func (r *GormConfirmEmailTokenRepository) Create(ctx context.Context, token *identity.ConfirmEmailToken) error {
	model := &models.ConfirmEmailTokenModel{}
	model.FromDomain(token)
	if err := r.db.WithContext(ctx).Omit("User").Create(model).Error; err != nil {
		return translateError(err)
	}
	token.ID = model.ID
	return nil
}

// FindByEmailAndKey finds a token issued to the account with the email
func (r *GormConfirmEmailTokenRepository) FindByEmailAndKey(ctx context.Context, email, key string) (*identity.ConfirmEmailToken, error) {
	var model models.ConfirmEmailTokenModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = confirm_email_tokens.user_id").
		Where("users.email = ? AND confirm_email_tokens.key = ?", email, key).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a token
func (r *GormConfirmEmailTokenRepository) Delete(ctx context.Context, id shared.ID) error {
	return r.db.WithContext(ctx).Delete(&models.ConfirmEmailTokenModel{}, "id = ?", id).Error
}

// GormPasswordResetTokenRepository implements identity.PasswordResetTokenRepository
type GormPasswordResetTokenRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetTokenRepository creates a new GormPasswordResetTokenRepository
func NewGormPasswordResetTokenRepository(db *gorm.DB) *GormPasswordResetTokenRepository {
	return &GormPasswordResetTokenRepository{db: db}
}

// Create stores a token
func (r *GormPasswordResetTokenRepository) Create(ctx context.Context, token *identity.PasswordResetToken) error {
	model := &models.PasswordResetTokenModel{}
	model.FromDomain(token)
	if err := r.db.WithContext(ctx).Omit("User").Create(model).Error; err != nil {
		return translateError(err)
	}
	token.ID = model.ID
	return nil
}

// FindByKey finds a token by its key
func (r *GormPasswordResetTokenRepository) FindByKey(ctx context.Context, key string) (*identity.PasswordResetToken, error) {
	var model models.PasswordResetTokenModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// DeleteByUser removes every reset token of a user
func (r *GormPasswordResetTokenRepository) DeleteByUser(ctx context.Context, userID shared.ID) error {
	return r.db.WithContext(ctx).Delete(&models.PasswordResetTokenModel{}, "user_id = ?", userID).Error
}

// DeleteCreatedBefore removes tokens issued before the cutoff
func (r *GormPasswordResetTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.PasswordResetTokenModel{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

// Ensure the GORM repositories implement the identity interfaces
var (
	_ identity.UserRepository               = (*GormUserRepository)(nil)
	_ identity.ConfirmEmailTokenRepository  = (*GormConfirmEmailTokenRepository)(nil)
	_ identity.PasswordResetTokenRepository = (*GormPasswordResetTokenRepository)(nil)
)
