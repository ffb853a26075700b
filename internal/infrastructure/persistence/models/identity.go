package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	BaseModel
	Email        string            `gorm:"type:varchar(254);not null;uniqueIndex:idx_users_email"`
	PasswordHash string            `gorm:"column:password;type:varchar(128);not null"`
	FirstName    string            `gorm:"type:varchar(150);not null;default:''"`
	LastName     string            `gorm:"type:varchar(150);not null;default:''"`
	Company      string            `gorm:"type:varchar(40);not null;default:''"`
	Position     string            `gorm:"type:varchar(40);not null;default:''"`
	Type         identity.UserType `gorm:"type:varchar(5);not null;default:'buyer'"`
	IsActive     bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Company:           m.Company,
		Position:          m.Position,
		Type:              m.Type,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Company = u.Company
	m.Position = u.Position
	m.Type = u.Type
	m.IsActive = u.IsActive
}

// ContactModel is the persistence model for Contact.
type ContactModel struct {
	BaseModel
	UserID    uint64     `gorm:"not null;index"`
	City      string     `gorm:"type:varchar(50);not null"`
	Street    string     `gorm:"type:varchar(100);not null"`
	House     string     `gorm:"type:varchar(15);not null;default:''"`
	Structure string     `gorm:"type:varchar(15);not null;default:''"`
	Building  string     `gorm:"type:varchar(15);not null;default:''"`
	Apartment string     `gorm:"type:varchar(15);not null;default:''"`
	Phone     string     `gorm:"type:varchar(20);not null"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *identity.Contact {
	return &identity.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		City:       m.City,
		Street:     m.Street,
		House:      m.House,
		Structure:  m.Structure,
		Building:   m.Building,
		Apartment:  m.Apartment,
		Phone:      m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Contact.
func (m *ContactModel) FromDomain(c *identity.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.City = c.City
	m.Street = c.Street
	m.House = c.House
	m.Structure = c.Structure
	m.Building = c.Building
	m.Apartment = c.Apartment
	m.Phone = c.Phone
}

// ConfirmEmailTokenModel is the persistence model for ConfirmEmailToken.
type ConfirmEmailTokenModel struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `gorm:"not null;index"`
	Key       string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_confirm_email_tokens_key"`
	CreatedAt time.Time  `gorm:"not null"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ConfirmEmailTokenModel) TableName() string {
	return "confirm_email_tokens"
}

// ToDomain converts the persistence model to a domain ConfirmEmailToken.
func (m *ConfirmEmailTokenModel) ToDomain() *identity.ConfirmEmailToken {
	return &identity.ConfirmEmailToken{ID: m.ID, UserID: m.UserID, Key: m.Key, CreatedAt: m.CreatedAt}
}

// FromDomain populates the persistence model from a domain ConfirmEmailToken.
func (m *ConfirmEmailTokenModel) FromDomain(t *identity.ConfirmEmailToken) {
	m.ID = t.ID
	m.UserID = t.UserID
	m.Key = t.Key
	m.CreatedAt = t.CreatedAt
}

// PasswordResetTokenModel is the persistence model for PasswordResetToken.
type PasswordResetTokenModel struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `gorm:"not null;index"`
	Key       string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_password_reset_tokens_key"`
	CreatedAt time.Time  `gorm:"not null"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// ToDomain converts the persistence model to a domain PasswordResetToken.
func (m *PasswordResetTokenModel) ToDomain() *identity.PasswordResetToken {
	return &identity.PasswordResetToken{ID: m.ID, UserID: m.UserID, Key: m.Key, CreatedAt: m.CreatedAt}
}

// FromDomain populates the persistence model from a domain PasswordResetToken.
func (m *PasswordResetTokenModel) FromDomain(t *identity.PasswordResetToken) {
	m.ID = t.ID
	m.UserID = t.UserID
	m.Key = t.Key
	m.CreatedAt = t.CreatedAt
}
