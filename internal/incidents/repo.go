package incidents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

// Repository handles incident persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to incident operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new incident row.
func (r *Repository) Create(ctx context.Context, incident *models.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

// FindInOrg loads an incident scoped to the organization.
func (r *Repository) FindInOrg(ctx context.Context, orgID, incidentID uuid.UUID) (*models.Incident, error) {
	var incident models.Incident
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", incidentID, orgID).
		First(&incident).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

// ListQuery configures incident list queries.
type ListQuery struct {
	OrganizationID uuid.UUID
	ChildID        *uuid.UUID
	Severity       *enums.IncidentSeverity
	Limit          int
	Cursor         *pagination.Cursor
}

// List returns a page of incidents, newest first.
func (r *Repository) List(ctx context.Context, params ListQuery) ([]models.Incident, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.ChildID != nil {
		query = query.Where("child_id = ?", *params.ChildID)
	}
	if params.Severity != nil {
		query = query.Where("severity = ?", *params.Severity)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var incidents []models.Incident
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&incidents).Error; err != nil {
		return nil, nil, err
	}

	if len(incidents) > limit {
		next := incidents[limit]
		incidents = incidents[:limit]
		return incidents, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return incidents, nil, nil
}
