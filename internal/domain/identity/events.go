package identity

import "github.com/marketplace/backend/internal/domain/shared"

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered         = "UserRegistered"
	EventTypePasswordResetRequested = "PasswordResetRequested"
)

// UserRegisteredEvent is published when an inactive account was created
// together with its email confirmation token
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID shared.ID `json:"user_id"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User, token *ConfirmEmailToken) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Email:           user.Email,
		Token:           token.Key,
	}
}

// PasswordResetRequestedEvent is published when a reset token was issued
type PasswordResetRequestedEvent struct {
	shared.BaseDomainEvent
	UserID shared.ID `json:"user_id"`
	Token  string    `json:"token"`
}

// NewPasswordResetRequestedEvent creates a new PasswordResetRequestedEvent
func NewPasswordResetRequestedEvent(user *User, token *PasswordResetToken) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePasswordResetRequested, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Token:           token.Key,
	}
}
