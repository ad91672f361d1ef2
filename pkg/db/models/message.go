package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is an intra-organization message between staff and parents,
// optionally linked to a child.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id;type:uuid;not null;index"`
	SenderID       uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index"`
	RecipientID    uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index"`
	ChildID        *uuid.UUID `gorm:"column:child_id;type:uuid"`
	Body           string     `gorm:"column:body;not null"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
