package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
)

// Repository handles group persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to group operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new group row.
func (r *Repository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// FindInOrg loads a group scoped to the organization.
func (r *Repository) FindInOrg(ctx context.Context, orgID, groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", groupID, orgID).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByOrg returns all groups in the organization ordered by name.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Update saves the provided group.
func (r *Repository) Update(ctx context.Context, group *models.Group) error {
	if group == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(group).Error
}
