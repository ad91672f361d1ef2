package children

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type repository interface {
	Create(ctx context.Context, child *models.Child) error
	FindInOrg(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error)
	List(ctx context.Context, params ListQuery) ([]models.Child, *pagination.Cursor, error)
	Update(ctx context.Context, child *models.Child) error
}

// Service manages enrollment records. Rates are carried in bani; the billing
// facade reads them when pricing absences and monthly invoices.
type Service struct {
	repo repository
}

// NewService builds a child enrollment service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("children repository required")
	}
	return &Service{repo: repo}, nil
}

// CreateInput captures a new enrollment.
type CreateInput struct {
	ParentID       uuid.UUID
	GroupID        *uuid.UUID
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	MealPriceBani  int64
	MonthlyFeeBani int64
}

// Create enrolls a child in the organization.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Child, error) {
	if input.ParentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent id required")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name required")
	}
	if input.MealPriceBani < 0 || input.MonthlyFeeBani < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates cannot be negative")
	}

	child := &models.Child{
		OrganizationID: orgID,
		ParentID:       input.ParentID,
		GroupID:        input.GroupID,
		FirstName:      firstName,
		LastName:       lastName,
		BirthDate:      input.BirthDate,
		MealPriceBani:  input.MealPriceBani,
		MonthlyFeeBani: input.MonthlyFeeBani,
		Active:         true,
	}
	if err := s.repo.Create(ctx, child); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create child")
	}
	return child, nil
}

// GetByID loads a child within the organization.
func (s *Service) GetByID(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error) {
	child, err := s.repo.FindInOrg(ctx, orgID, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}
	return child, nil
}

// List returns a page of children matching the query.
func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Child, *pagination.Cursor, error) {
	records, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list children")
	}
	return records, next, nil
}

// UpdateInput captures the mutable enrollment fields.
type UpdateInput struct {
	GroupID        *uuid.UUID
	FirstName      *string
	LastName       *string
	MealPriceBani  *int64
	MonthlyFeeBani *int64
	Active         *bool
}

// Update applies the provided changes to an enrollment.
func (s *Service) Update(ctx context.Context, orgID, childID uuid.UUID, input UpdateInput) (*models.Child, error) {
	child, err := s.GetByID(ctx, orgID, childID)
	if err != nil {
		return nil, err
	}

	if input.GroupID != nil {
		child.GroupID = input.GroupID
	}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		child.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		child.LastName = name
	}
	if input.MealPriceBani != nil {
		if *input.MealPriceBani < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal price cannot be negative")
		}
		child.MealPriceBani = *input.MealPriceBani
	}
	if input.MonthlyFeeBani != nil {
		if *input.MonthlyFeeBani < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "monthly fee cannot be negative")
		}
		child.MonthlyFeeBani = *input.MonthlyFeeBani
	}
	if input.Active != nil {
		child.Active = *input.Active
	}

	if err := s.repo.Update(ctx, child); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update child")
	}
	return child, nil
}
