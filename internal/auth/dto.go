package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

// RegisterInput carries a signup request. Role is one of farmer, buyer, admin.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=farmer buyer admin"`
}

// LoginInput carries a credential check request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public projection of a user. The password hash never leaves
// the service layer.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuthResult pairs the minted access token with its subject.
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
