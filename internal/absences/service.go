package absences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing/proration"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, period *models.AbsencePeriod) error
	ListByChild(ctx context.Context, params ListQuery) ([]models.AbsencePeriod, error)
}

type childFinder interface {
	FindInOrg(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error)
}

// Service records and lists skipped-day periods. Periods are append-only:
// consumption is the billing facade's job and deletion never happens.
type Service struct {
	repo     repository
	children childFinder
	loc      *time.Location
}

// NewService builds an absence service.
func NewService(repo repository, children childFinder, cfg config.BillingConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("absences repository required")
	}
	if children == nil {
		return nil, fmt.Errorf("children repository required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("billing timezone: %w", err)
	}
	return &Service{repo: repo, children: children, loc: loc}, nil
}

// Record stores an inclusive [start, end] absence range for a child. Input
// instants are resolved to deployment-timezone calendar dates here, once; an
// inverted range is stored as-is and later yields a zero credit.
func (s *Service) Record(ctx context.Context, orgID, childID uuid.UUID, start, end time.Time) (*models.AbsencePeriod, error) {
	if childID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "child id required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}

	child, err := s.children.FindInOrg(ctx, orgID, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}

	period := &models.AbsencePeriod{
		OrganizationID: child.OrganizationID,
		ChildID:        child.ID,
		StartDate:      proration.DateIn(start, s.loc),
		EndDate:        proration.DateIn(end, s.loc),
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create absence period")
	}
	return period, nil
}

// ListByChild returns the child's absence periods, optionally filtered by
// consumption state.
func (s *Service) ListByChild(ctx context.Context, orgID, childID uuid.UUID, consumed *bool) ([]models.AbsencePeriod, error) {
	if childID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "child id required")
	}
	if _, err := s.children.FindInOrg(ctx, orgID, childID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}

	periods, err := s.repo.ListByChild(ctx, ListQuery{
		OrganizationID: orgID,
		ChildID:        childID,
		Consumed:       consumed,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list absence periods")
	}
	return periods, nil
}
