package identity

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
)

// TokenKeyLength is the length of generated token keys in characters
const TokenKeyLength = 64

// ConfirmEmailToken proves control of the email address of a new account.
// It is consumed on activation.
type ConfirmEmailToken struct {
	ID        shared.ID
	UserID    shared.ID
	Key       string
	CreatedAt time.Time
}

// NewConfirmEmailToken creates a token with a random key
func NewConfirmEmailToken(userID shared.ID) (*ConfirmEmailToken, error) {
	key, err := GenerateTokenKey()
	if err != nil {
		return nil, err
	}
	return &ConfirmEmailToken{UserID: userID, Key: key, CreatedAt: time.Now()}, nil
}

// PasswordResetToken authorizes a single password change
type PasswordResetToken struct {
	ID        shared.ID
	UserID    shared.ID
	Key       string
	CreatedAt time.Time
}

// NewPasswordResetToken creates a reset token with a random key
func NewPasswordResetToken(userID shared.ID) (*PasswordResetToken, error) {
	key, err := GenerateTokenKey()
	if err != nil {
		return nil, err
	}
	return &PasswordResetToken{UserID: userID, Key: key, CreatedAt: time.Now()}, nil
}

// IsExpired reports whether the token is older than ttl
func (t *PasswordResetToken) IsExpired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(t.CreatedAt) > ttl
}

// GenerateTokenKey returns 32 random bytes hex encoded
func GenerateTokenKey() (string, error) {
	b := make([]byte, TokenKeyLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
