package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Group is a class of children led by an educator.
type Group struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string         `gorm:"column:name;not null"`
	EducatorID     *uuid.UUID     `gorm:"column:educator_id;type:uuid"`
	Weekdays       pq.StringArray `gorm:"column:weekdays;type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
