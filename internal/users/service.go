package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/security"
)

type repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindInOrg(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context, params ListQuery) ([]models.User, *pagination.Cursor, error)
	Update(ctx context.Context, user *models.User) error
}

// Service manages accounts inside one organization. Only admins reach these
// operations; role checks happen in the middleware layer.
type Service struct {
	repo        repository
	passwordCfg config.PasswordConfig
}

// NewService builds a user management service.
func NewService(repo repository, passwordCfg config.PasswordConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Service{repo: repo, passwordCfg: passwordCfg}, nil
}

// CreateInput captures an admin-created account.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      enums.MemberRole
}

// Create registers a staff or parent account in the organization.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Role:           input.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	dto := FromModel(user)
	return &dto, nil
}

// GetByID loads a user within the organization.
func (s *Service) GetByID(ctx context.Context, orgID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindInOrg(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	dto := FromModel(user)
	return &dto, nil
}

// List returns a page of the organization's users.
func (s *Service) List(ctx context.Context, params ListQuery) ([]UserDTO, *pagination.Cursor, error) {
	records, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	dtos := make([]UserDTO, len(records))
	for i := range records {
		dtos[i] = FromModel(&records[i])
	}
	return dtos, next, nil
}

// UpdateInput captures the mutable profile fields.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *enums.MemberRole
	Active    *bool
}

// Update applies the provided changes to a user in the organization.
func (s *Service) Update(ctx context.Context, orgID, userID uuid.UUID, input UpdateInput) (*UserDTO, error) {
	user, err := s.repo.FindInOrg(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	dto := FromModel(user)
	return &dto, nil
}
