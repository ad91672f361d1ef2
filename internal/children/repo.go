package children

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

// Repository handles child persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to child operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new child row.
func (r *Repository) Create(ctx context.Context, child *models.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

// FindInOrg loads a child scoped to the organization.
func (r *Repository) FindInOrg(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error) {
	var child models.Child
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", childID, orgID).
		First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

// ListQuery configures child list queries.
type ListQuery struct {
	OrganizationID uuid.UUID
	GroupID        *uuid.UUID
	ParentID       *uuid.UUID
	ActiveOnly     bool
	Limit          int
	Cursor         *pagination.Cursor
}

// List returns a page of children, newest first.
func (r *Repository) List(ctx context.Context, params ListQuery) ([]models.Child, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Child{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.GroupID != nil {
		query = query.Where("group_id = ?", *params.GroupID)
	}
	if params.ParentID != nil {
		query = query.Where("parent_id = ?", *params.ParentID)
	}
	if params.ActiveOnly {
		query = query.Where("active")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var children []models.Child
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&children).Error; err != nil {
		return nil, nil, err
	}

	if len(children) > limit {
		next := children[limit]
		children = children[:limit]
		return children, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return children, nil, nil
}

// ListActiveByOrg returns every active child in the organization. Used by
// the monthly invoice job.
func (r *Repository) ListActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Child, error) {
	var children []models.Child
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND active", orgID).
		Order("created_at ASC, id ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// ListActiveOrgIDs returns the distinct organizations that have at least one
// active child enrolled.
func (r *Repository) ListActiveOrgIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Child{}).
		Where("active").
		Distinct("organization_id").
		Pluck("organization_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update saves the provided child.
func (r *Repository) Update(ctx context.Context, child *models.Child) error {
	if child == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(child).Error
}
