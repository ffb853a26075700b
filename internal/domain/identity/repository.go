package identity

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user; a taken email yields shared.ErrAlreadyExists
	Create(ctx context.Context, user *User) error

	// Update saves an existing user
	Update(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id shared.ID) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ConfirmEmailTokenRepository defines the interface for confirmation tokens
type ConfirmEmailTokenRepository interface {
	Create(ctx context.Context, token *ConfirmEmailToken) error

	// FindByEmailAndKey finds the token issued to the user with the email
	FindByEmailAndKey(ctx context.Context, email, key string) (*ConfirmEmailToken, error)

	Delete(ctx context.Context, id shared.ID) error
}

// PasswordResetTokenRepository defines the interface for reset tokens
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error

	FindByKey(ctx context.Context, key string) (*PasswordResetToken, error)

	// DeleteByUser removes every reset token of a user
	DeleteByUser(ctx context.Context, userID shared.ID) error

	// DeleteCreatedBefore removes tokens issued before the cutoff
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContactRepository defines the interface for contact persistence.
// Every lookup is scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error

	Update(ctx context.Context, contact *Contact) error

	FindByIDForUser(ctx context.Context, userID, id shared.ID) (*Contact, error)

	ListByUser(ctx context.Context, userID shared.ID) ([]Contact, error)

	// DeleteByIDsForUser deletes the user's contacts with the given ids
	DeleteByIDsForUser(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error)
}
