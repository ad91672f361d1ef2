package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/internal/organizations"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/users"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/security"
)

// RegisterRequest contains the payload for onboarding a new organization
// together with its first admin account.
type RegisterRequest struct {
	OrganizationName string  `json:"organization_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	FirstName        string  `json:"first_name" validate:"required"`
	LastName         string  `json:"last_name" validate:"required"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
}

// RegisterService handles the onboarding transaction.
type RegisterService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (*RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &RegisterService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the organization and its admin user in one transaction.
func (s *RegisterService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.OrganizationName)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "organization name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		orgRepo := organizations.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		org := &models.Organization{
			Name:    name,
			Email:   email,
			Phone:   req.Phone,
			Address: req.Address,
		}
		if err := orgRepo.Create(ctx, org); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "organization already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create organization")
		}

		if _, err := userRepo.Create(ctx, users.CreateUserDTO{
			OrganizationID: org.ID,
			Email:          email,
			PasswordHash:   passwordHash,
			FirstName:      strings.TrimSpace(req.FirstName),
			LastName:       strings.TrimSpace(req.LastName),
			Role:           enums.MemberRoleAdmin,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin user")
		}

		return nil
	})
}
