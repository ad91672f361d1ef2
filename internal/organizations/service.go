package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
}

// Service exposes the organization profile operations. Creation happens in
// the signup flow, which owns the cross-table transaction.
type Service struct {
	repo repository
}

// NewService builds an organization service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("organizations repository required")
	}
	return &Service{repo: repo}, nil
}

// GetByID loads the organization profile.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load organization")
	}
	return org, nil
}

// UpdateInput captures the mutable organization profile fields.
type UpdateInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// Update applies profile changes to the organization.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		org.Name = name
	}
	if input.Phone != nil {
		org.Phone = input.Phone
	}
	if input.Address != nil {
		org.Address = input.Address
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update organization")
	}
	return org, nil
}
