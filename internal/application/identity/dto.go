package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/karma-shop/backend/internal/domain/identity"
	"github.com/karma-shop/backend/internal/infrastructure/auth"
)

// UserDTO is the user representation returned by the API
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResult carries the authenticated user and their token pair
type AuthResult struct {
	User   UserDTO         `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// RegisterInput carries a registration request
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries a login request
type LoginInput struct {
	Email    string
	Password string
}

// CreateUserInput carries an admin user-creation request
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries an admin partial update; nil fields are left as-is
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// toUserDTO maps a user aggregate to its API representation
func toUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
