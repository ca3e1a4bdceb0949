// Package identity contains the application services for authentication and
// user administration.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/identity"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/auth"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
)

// AuthService handles registration, login, token refresh, and logout
type AuthService struct {
	users     identity.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewAuthService creates a new authentication service
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{users: users, jwt: jwt, blacklist: blacklist}
}

// Register creates a new customer account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user registered", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: toUserDTO(user), Tokens: tokens}, nil
}

// Login authenticates a user by email and password. Unknown emails and wrong
// passwords produce the same error so the response does not leak which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		return nil, invalidCredentials()
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user logged in", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: toUserDTO(user), Tokens: tokens}, nil
}

// Refresh validates a refresh token and issues a new token pair. The used
// refresh token is blacklisted so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if s.blacklist != nil {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			return nil, shared.ErrUnauthorized
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			logger.L(ctx).Warn("failed to blacklist used refresh token", zap.Error(err))
		}
	}

	return &AuthResult{User: toUserDTO(user), Tokens: tokens}, nil
}

// Logout revokes the access token carried by the current request
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return shared.ErrUnauthorized
	}
	if s.blacklist == nil {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return err
	}

	logger.L(ctx).Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Profile returns the account of the authenticated user
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	return s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
}
