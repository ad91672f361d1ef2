package absences

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
)

// Repository handles absence period persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to absence operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new absence period row.
func (r *Repository) Create(ctx context.Context, period *models.AbsencePeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

// FindInOrg loads an absence period scoped to the organization.
func (r *Repository) FindInOrg(ctx context.Context, orgID, periodID uuid.UUID) (*models.AbsencePeriod, error) {
	var period models.AbsencePeriod
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", periodID, orgID).
		First(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// ListQuery configures absence list queries.
type ListQuery struct {
	OrganizationID uuid.UUID
	ChildID        uuid.UUID
	Consumed       *bool
}

// ListByChild returns the child's absence periods in calendar order.
func (r *Repository) ListByChild(ctx context.Context, params ListQuery) ([]models.AbsencePeriod, error) {
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND child_id = ?", params.OrganizationID, params.ChildID)
	if params.Consumed != nil {
		query = query.Where("consumed = ?", *params.Consumed)
	}

	var periods []models.AbsencePeriod
	if err := query.Order("start_date ASC, id ASC").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}
