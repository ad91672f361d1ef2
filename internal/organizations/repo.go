package organizations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
)

// Repository handles organization persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to organization operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new organization row.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// FindByID loads an organization by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByEmail loads an organization by its unique contact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update saves the provided organization.
func (r *Repository) Update(ctx context.Context, org *models.Organization) error {
	if org == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(org).Error
}
