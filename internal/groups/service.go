package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

var validWeekdays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
}

type repository interface {
	Create(ctx context.Context, group *models.Group) error
	FindInOrg(ctx context.Context, orgID, groupID uuid.UUID) (*models.Group, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Group, error)
	Update(ctx context.Context, group *models.Group) error
}

// Service manages the organization's groups.
type Service struct {
	repo repository
}

// NewService builds a group service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("groups repository required")
	}
	return &Service{repo: repo}, nil
}

// CreateInput captures a new group.
type CreateInput struct {
	Name       string
	EducatorID *uuid.UUID
	Weekdays   []string
}

// Create registers a group in the organization.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	weekdays, err := normalizeWeekdays(input.Weekdays)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		OrganizationID: orgID,
		Name:           name,
		EducatorID:     input.EducatorID,
		Weekdays:       pq.StringArray(weekdays),
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}
	return group, nil
}

// GetByID loads a group within the organization.
func (s *Service) GetByID(ctx context.Context, orgID, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.repo.FindInOrg(ctx, orgID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	return group, nil
}

// List returns the organization's groups.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]models.Group, error) {
	groups, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}
	return groups, nil
}

// UpdateInput captures the mutable group fields.
type UpdateInput struct {
	Name       *string
	EducatorID *uuid.UUID
	Weekdays   *[]string
}

// Update applies the provided changes to a group.
func (s *Service) Update(ctx context.Context, orgID, groupID uuid.UUID, input UpdateInput) (*models.Group, error) {
	group, err := s.GetByID(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		group.Name = name
	}
	if input.EducatorID != nil {
		group.EducatorID = input.EducatorID
	}
	if input.Weekdays != nil {
		weekdays, err := normalizeWeekdays(*input.Weekdays)
		if err != nil {
			return nil, err
		}
		group.Weekdays = pq.StringArray(weekdays)
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group")
	}
	return group, nil
}

func normalizeWeekdays(raw []string) ([]string, error) {
	seen := map[string]struct{}{}
	normalized := make([]string, 0, len(raw))
	for _, day := range raw {
		value := strings.ToLower(strings.TrimSpace(day))
		if _, ok := validWeekdays[value]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weekdays must be monday through friday")
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}
	return normalized, nil
}
