package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

// UserDTO is the API-safe projection of a user account.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Role        enums.MemberRole `json:"role"`
	Active      bool             `json:"active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FromModel strips the credential fields from a user record.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// CreateUserDTO carries the fields persisted for a new account.
type CreateUserDTO struct {
	OrganizationID uuid.UUID
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Role           enums.MemberRole
}

// ToModel converts the DTO into a persistable user row.
func (dto CreateUserDTO) ToModel() *models.User {
	return &models.User{
		OrganizationID: dto.OrganizationID,
		Email:          dto.Email,
		PasswordHash:   dto.PasswordHash,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		Role:           dto.Role,
		Active:         true,
	}
}
