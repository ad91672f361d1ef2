package incidents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type repository interface {
	Create(ctx context.Context, incident *models.Incident) error
	FindInOrg(ctx context.Context, orgID, incidentID uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, params ListQuery) ([]models.Incident, *pagination.Cursor, error)
}

type childFinder interface {
	FindInOrg(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error)
}

// Service records incident reports authored by staff.
type Service struct {
	repo     repository
	children childFinder
}

// NewService builds an incident service.
func NewService(repo repository, children childFinder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("incidents repository required")
	}
	if children == nil {
		return nil, fmt.Errorf("children repository required")
	}
	return &Service{repo: repo, children: children}, nil
}

// CreateInput captures a new incident report.
type CreateInput struct {
	ChildID     uuid.UUID
	AuthorID    uuid.UUID
	Severity    enums.IncidentSeverity
	Description string
	OccurredAt  time.Time
}

// Create files an incident against a child in the organization.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Incident, error) {
	if input.ChildID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "child id required")
	}
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "author identity missing")
	}
	if !input.Severity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid severity")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now().UTC()
	}

	if _, err := s.children.FindInOrg(ctx, orgID, input.ChildID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}

	incident := &models.Incident{
		OrganizationID: orgID,
		ChildID:        input.ChildID,
		AuthorID:       input.AuthorID,
		Severity:       input.Severity,
		Description:    description,
		OccurredAt:     input.OccurredAt,
	}
	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create incident")
	}
	return incident, nil
}

// GetByID loads an incident within the organization.
func (s *Service) GetByID(ctx context.Context, orgID, incidentID uuid.UUID) (*models.Incident, error) {
	incident, err := s.repo.FindInOrg(ctx, orgID, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "incident not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load incident")
	}
	return incident, nil
}

// List returns a page of incidents matching the query.
func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Incident, *pagination.Cursor, error) {
	records, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list incidents")
	}
	return records, next, nil
}
