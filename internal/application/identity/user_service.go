package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/identity"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
)

// UserService handles administrative user management
type UserService struct {
	users identity.UserRepository
}

// NewUserService creates a new user administration service
func NewUserService(users identity.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns users matching the filter, with the total count
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns a single user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// Create creates a user with an explicit role; an empty role means customer
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}

	role := identity.Role(input.Role)
	if input.Role == "" {
		role = identity.RoleCustomer
	}

	user, err := identity.NewUserWithRole(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	dto := toUserDTO(user)
	return &dto, nil
}

// Update applies a partial update; only non-nil fields change
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Email != nil && identity.NormalizeEmail(*input.Email) != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already in use")
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := user.ChangePassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if input.Role != nil {
		if err := user.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("user deleted", zap.String("user_id", id.String()))
	return nil
}
