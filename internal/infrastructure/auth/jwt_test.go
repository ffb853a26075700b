package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestUser(id uint64, userType identity.UserType) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: id}},
		Email:             "buyer@example.com",
		Type:              userType,
		IsActive:          true,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "market",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, time.Hour, svc.Expiration())
	assert.Equal(t, "market", svc.issuer)
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.IssueToken(newTestUser(42, identity.UserTypeShop))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, claims.IsShop())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_IssueToken_BuyerIsNotShop(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.IssueToken(newTestUser(7, identity.UserTypeBuyer))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsShop())
}

func TestJWTService_IssueToken_RequiresPersistedUser(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.IssueToken(nil)
	assert.ErrorIs(t, err, ErrMissingUserID)

	_, err = svc.IssueToken(newTestUser(0, identity.UserTypeBuyer))
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueToken(newTestUser(1, identity.UserTypeBuyer))
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})

	token, err := issuer.IssueToken(newTestUser(1, identity.UserTypeBuyer))
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_WrongIssuer(t *testing.T) {
	svc := newTestJWTService()
	foreign := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "someone-else",
	})

	token, err := foreign.IssueToken(newTestUser(1, identity.UserTypeBuyer))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "test-issuer"},
		UserID:           1,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := newTestJWTService()

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}
