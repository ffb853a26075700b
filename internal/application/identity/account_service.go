package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const duplicateEmailMessage = "Пользователь с таким адрес электронной почты уже существует."

// TokenIssuer issues access tokens for authenticated users
type TokenIssuer interface {
	IssueToken(user *identity.User) (string, error)
}

// AccountServiceConfig contains configuration for the account service
type AccountServiceConfig struct {
	PasswordResetTTL time.Duration
	PasswordPolicy   identity.PasswordPolicy
}

// DefaultAccountServiceConfig returns default configuration
func DefaultAccountServiceConfig() AccountServiceConfig {
	return AccountServiceConfig{
		PasswordResetTTL: 24 * time.Hour,
		PasswordPolicy:   identity.DefaultPasswordPolicy(),
	}
}

// AccountService handles registration, email confirmation, login,
// account details and password reset
type AccountService struct {
	userRepo    identity.UserRepository
	confirmRepo identity.ConfirmEmailTokenRepository
	resetRepo   identity.PasswordResetTokenRepository
	contactRepo identity.ContactRepository
	tokens      TokenIssuer
	publisher   shared.EventPublisher
	config      AccountServiceConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(
	userRepo identity.UserRepository,
	confirmRepo identity.ConfirmEmailTokenRepository,
	resetRepo identity.PasswordResetTokenRepository,
	contactRepo identity.ContactRepository,
	tokens TokenIssuer,
	publisher shared.EventPublisher,
	config AccountServiceConfig,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		confirmRepo: confirmRepo,
		resetRepo:   resetRepo,
		contactRepo: contactRepo,
		tokens:      tokens,
		publisher:   publisher,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates an inactive account and sends the confirmation token
// by email
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	attrs := []identity.UserAttribute{
		{Label: "адрес электронной почты", Value: req.Email},
		{Label: "имя", Value: req.FirstName},
		{Label: "фамилия", Value: req.LastName},
	}
	if err := s.config.PasswordPolicy.Validate(req.Password, attrs); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Password, identity.Profile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Company:   strings.TrimSpace(req.Company),
		Position:  strings.TrimSpace(req.Position),
	}, identity.UserType(strings.TrimSpace(req.Type)))
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("email", duplicateEmailMessage)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewValidationError("email", duplicateEmailMessage)
		}
		return nil, err
	}

	token, err := identity.NewConfirmEmailToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.confirmRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	s.publish(ctx, identity.NewUserRegisteredEvent(user, token))
	s.logger.Info("User registered", zap.Uint64("user_id", user.ID), zap.String("type", user.Type.String()))

	resp := ToUserResponse(user, nil)
	return &resp, nil
}

// ConfirmEmail activates the account owning the email when the token matches
func (s *AccountService) ConfirmEmail(ctx context.Context, email, key string) error {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return identity.ErrInvalidConfirm
	}
	token, err := s.confirmRepo.FindByEmailAndKey(ctx, normalized, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrInvalidConfirm
		}
		return err
	}
	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.Activate()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.confirmRepo.Delete(ctx, token.ID); err != nil {
		return err
	}
	s.logger.Info("Email confirmed", zap.Uint64("user_id", user.ID))
	return nil
}

// Login authenticates an active account and issues an access token
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return nil, identity.ErrLoginFailed
	}
	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, identity.ErrLoginFailed
		}
		return nil, err
	}
	if !user.IsActive || !user.VerifyPassword(password) {
		s.logger.Warn("Login rejected", zap.Uint64("user_id", user.ID), zap.Bool("active", user.IsActive))
		return nil, identity.ErrLoginFailed
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.Uint64("user_id", user.ID))
	return &LoginResult{Token: token}, nil
}

// GetDetails returns the caller's account with contacts
func (s *AccountService) GetDetails(ctx context.Context, userID shared.ID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, contacts)
	return &resp, nil
}

// UpdateDetails applies a partial update to the caller's account. A new
// password must satisfy the password policy.
func (s *AccountService) UpdateDetails(ctx context.Context, userID shared.ID, req UpdateDetailsRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.Password != nil {
		if err := s.config.PasswordPolicy.Validate(*req.Password, user.Attributes()); err != nil {
			return err
		}
		if err := user.SetPassword(*req.Password); err != nil {
			return err
		}
	}

	profile := identity.Profile{
		FirstName: pick(req.FirstName, user.FirstName),
		LastName:  pick(req.LastName, user.LastName),
		Company:   pick(req.Company, user.Company),
		Position:  pick(req.Position, user.Position),
	}
	if err := user.UpdateProfile(profile); err != nil {
		return err
	}

	if req.Email != nil {
		normalized, err := identity.NormalizeEmail(*req.Email)
		if err != nil {
			return err
		}
		if normalized != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, normalized)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewValidationError("email", duplicateEmailMessage)
			}
			if err := user.ChangeEmail(normalized); err != nil {
				return err
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.NewValidationError("email", duplicateEmailMessage)
		}
		return err
	}
	return nil
}

// RequestPasswordReset issues a reset token for an active account. The
// result does not reveal whether the email is registered.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := identity.NewPasswordResetToken(user.ID)
	if err != nil {
		return err
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return err
	}
	s.publish(ctx, identity.NewPasswordResetRequestedEvent(user, token))
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token. Every
// reset token of the account is consumed.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, key, password string) error {
	token, err := s.resetRepo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrInvalidResetToken
		}
		return err
	}
	if token.IsExpired(s.config.PasswordResetTTL, s.now()) {
		if err := s.resetRepo.DeleteByUser(ctx, token.UserID); err != nil {
			s.logger.Warn("Failed to delete expired reset tokens", zap.Error(err))
		}
		return identity.ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if err := s.config.PasswordPolicy.Validate(password, user.Attributes()); err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return s.resetRepo.DeleteByUser(ctx, user.ID)
}

// PurgeExpiredResetTokens deletes reset tokens past their lifetime. Nothing
// is purged when the lifetime is unlimited.
func (s *AccountService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	if s.config.PasswordResetTTL <= 0 {
		return 0, nil
	}
	return s.resetRepo.DeleteCreatedBefore(ctx, s.now().Add(-s.config.PasswordResetTTL))
}

func (s *AccountService) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}

func pick(v *string, current string) string {
	if v == nil {
		return current
	}
	return strings.TrimSpace(*v)
}
