package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karma-shop/backend/internal/domain/identity"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/auth"
	"github.com/karma-shop/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
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

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-access-tokens-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "karma-test",
	})
}

func newTestUser(t *testing.T, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Test User", email, password)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers new user and issues tokens", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		result, err := svc.Register(ctx, RegisterInput{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", result.User.Email)
		assert.Equal(t, "customer", result.User.Role)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		_, err := svc.Register(ctx, RegisterInput{
			Name:     "Dup",
			Email:    "taken@example.com",
			Password: "password123",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "weak@example.com").Return(false, nil)

		svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		_, err := svc.Register(ctx, RegisterInput{
			Name:     "Weak",
			Email:    "weak@example.com",
			Password: "short",
		})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return tokens", func(t *testing.T) {
		user := newTestUser(t, "alice@example.com", "password123")
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)

		svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		result, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Tokens.AccessToken)
	})

	t.Run("wrong password and unknown email yield the same error", func(t *testing.T) {
		user := newTestUser(t, "alice@example.com", "password123")
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
		users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		_, errWrongPassword := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "nope-nope"})
		_, errUnknownEmail := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password123"})

		require.Error(t, errWrongPassword)
		require.Error(t, errUnknownEmail)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())

		var domainErr *shared.DomainError
		require.ErrorAs(t, errWrongPassword, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token issues a new pair and burns the old one", func(t *testing.T) {
		jwtSvc := newTestJWTService()
		blacklist := auth.NewInMemoryTokenBlacklist()
		user := newTestUser(t, "bob@example.com", "password123")

		users := new(MockUserRepository)
		users.On("FindByID", ctx, user.ID).Return(user, nil)

		pair, err := jwtSvc.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID,
			Email:  user.Email,
			Role:   string(user.Role),
		})
		require.NoError(t, err)

		svc := NewAuthService(users, jwtSvc, blacklist)

		result, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)

		// the same refresh token cannot be replayed
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("garbage refresh token is unauthorized", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), newTestJWTService(), auth.NewInMemoryTokenBlacklist())

		_, err := svc.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("deleted user is unauthorized", func(t *testing.T) {
		jwtSvc := newTestJWTService()
		userID := uuid.New()

		users := new(MockUserRepository)
		users.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)

		pair, err := jwtSvc.GenerateTokenPair(auth.GenerateTokenInput{UserID: userID})
		require.NoError(t, err)

		svc := NewAuthService(users, jwtSvc, auth.NewInMemoryTokenBlacklist())

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists the access token jti", func(t *testing.T) {
		jwtSvc := newTestJWTService()
		blacklist := auth.NewInMemoryTokenBlacklist()
		userID := uuid.New()

		pair, err := jwtSvc.GenerateTokenPair(auth.GenerateTokenInput{UserID: userID})
		require.NoError(t, err)

		claims, err := jwtSvc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		svc := NewAuthService(new(MockUserRepository), jwtSvc, blacklist)

		require.NoError(t, svc.Logout(ctx, claims))

		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("nil claims are unauthorized", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), newTestJWTService(), auth.NewInMemoryTokenBlacklist())
		assert.ErrorIs(t, svc.Logout(ctx, nil), shared.ErrUnauthorized)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	user := newTestUser(t, "carol@example.com", "password123")
	users := new(MockUserRepository)
	users.On("FindByID", ctx, user.ID).Return(user, nil)

	svc := NewAuthService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist())

	dto, err := svc.Profile(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", dto.Email)
	assert.Equal(t, "customer", dto.Role)
}
