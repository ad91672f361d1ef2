package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

// Invoice is a monthly charge record for a child. AdjustedBani starts equal
// to BaseBani and only shrinks as absence credits are applied; it never drops
// below zero.
type Invoice struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID     `gorm:"column:organization_id;type:uuid;not null;index"`
	ChildID        uuid.UUID     `gorm:"column:child_id;type:uuid;not null;index"`
	Month          string        `gorm:"column:month;not null;index:idx_invoices_child_month,unique,composite:child_id"`
	BaseBani       int64         `gorm:"column:base_bani;not null"`
	AdjustedBani   int64         `gorm:"column:adjusted_bani;not null"`
	IssueDate      time.Time     `gorm:"column:issue_date;not null"`
	DueDate        time.Time     `gorm:"column:due_date;not null"`
	Paid           bool          `gorm:"column:paid;not null;default:false"`
	PayType        enums.PayType `gorm:"column:pay_type;type:pay_type;not null;default:'bank_transfer'"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
