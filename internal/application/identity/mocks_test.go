package identity

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id shared.ID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockConfirmRepository struct {
	mock.Mock
}

func (m *MockConfirmRepository) Create(ctx context.Context, token *identity.ConfirmEmailToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockConfirmRepository) FindByEmailAndKey(ctx context.Context, email, key string) (*identity.ConfirmEmailToken, error) {
	args := m.Called(ctx, email, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.ConfirmEmailToken), args.Error(1)
}

func (m *MockConfirmRepository) Delete(ctx context.Context, id shared.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockResetRepository struct {
	mock.Mock
}

func (m *MockResetRepository) Create(ctx context.Context, token *identity.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockResetRepository) FindByKey(ctx context.Context, key string) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PasswordResetToken), args.Error(1)
}

func (m *MockResetRepository) DeleteByUser(ctx context.Context, userID shared.ID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockResetRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *identity.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *identity.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) FindByIDForUser(ctx context.Context, userID, id shared.ID) (*identity.Contact, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Contact), args.Error(1)
}

func (m *MockContactRepository) ListByUser(ctx context.Context, userID shared.ID) ([]identity.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Contact), args.Error(1)
}

func (m *MockContactRepository) DeleteByIDsForUser(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type stubIssuer struct{}

func (stubIssuer) IssueToken(user *identity.User) (string, error) {
	return "token-for-" + user.Email, nil
}
