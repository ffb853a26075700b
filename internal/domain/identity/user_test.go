package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	profile := Profile{FirstName: "Иван", LastName: "Иванов", Company: "ООО Ромашка", Position: "менеджер"}

	t.Run("creates inactive buyer by default", func(t *testing.T) {
		u, err := NewUser("Ivan@Example.COM", "TestPass123!", profile, "")
		require.NoError(t, err)
		assert.Equal(t, "Ivan@example.com", u.Email)
		assert.Equal(t, UserTypeBuyer, u.Type)
		assert.False(t, u.IsActive)
		assert.False(t, u.IsShop())
		assert.True(t, u.VerifyPassword("TestPass123!"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("creates shop account", func(t *testing.T) {
		u, err := NewUser("shop@example.com", "TestPass123!", profile, UserTypeShop)
		require.NoError(t, err)
		assert.True(t, u.IsShop())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewUser("a@example.com", "TestPass123!", profile, "admin")
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "type")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "Bob <bob@example.com>"} {
			_, err := NewUser(email, "TestPass123!", profile, "")
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr), email)
			assert.Contains(t, verr.Fields, "email")
		}
	})

	t.Run("rejects long company", func(t *testing.T) {
		p := profile
		p.Company = "01234567890123456789012345678901234567890"
		_, err := NewUser("a@example.com", "TestPass123!", p, "")
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "company")
	})
}

func TestUser_Activate(t *testing.T) {
	u, err := NewUser("a@example.com", "TestPass123!", Profile{}, "")
	require.NoError(t, err)
	u.Activate()
	assert.True(t, u.IsActive)
}

func TestPasswordResetToken_IsExpired(t *testing.T) {
	tok, err := NewPasswordResetToken(1)
	require.NoError(t, err)
	assert.Len(t, tok.Key, TokenKeyLength)

	now := tok.CreatedAt
	assert.False(t, tok.IsExpired(time.Hour, now.Add(30*time.Minute)))
	assert.True(t, tok.IsExpired(time.Hour, now.Add(2*time.Hour)))
	assert.False(t, tok.IsExpired(0, now.Add(1000*time.Hour)), "zero ttl never expires")
}

func TestGenerateTokenKey_Unique(t *testing.T) {
	a, err := GenerateTokenKey()
	require.NoError(t, err)
	b, err := GenerateTokenKey()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
