package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

// Incident records an event involving a child, authored by a staff member.
type Incident struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID              `gorm:"column:organization_id;type:uuid;not null;index"`
	ChildID        uuid.UUID              `gorm:"column:child_id;type:uuid;not null;index"`
	AuthorID       uuid.UUID              `gorm:"column:author_id;type:uuid;not null"`
	Severity       enums.IncidentSeverity `gorm:"column:severity;type:incident_severity;not null;default:'minor'"`
	Description    string                 `gorm:"column:description;not null"`
	OccurredAt     time.Time              `gorm:"column:occurred_at;not null"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
