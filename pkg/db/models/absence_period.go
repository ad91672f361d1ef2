package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

// AbsencePeriod is a contiguous calendar range during which a child was
// marked absent. Rows are historical: they are never deleted, and they flip
// to consumed exactly once, in the same transaction that adjusts the charge
// the credit was applied to.
type AbsencePeriod struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	ChildID        uuid.UUID `gorm:"column:child_id;type:uuid;not null;index"`
	StartDate      time.Time `gorm:"column:start_date;not null"`
	EndDate        time.Time `gorm:"column:end_date;not null"`

	Consumed           bool              `gorm:"column:consumed;not null;default:false"`
	ConsumedBani       int64             `gorm:"column:consumed_bani;not null;default:0"`
	ConsumedChargeID   *uuid.UUID        `gorm:"column:consumed_charge_id;type:uuid"`
	ConsumedChargeKind *enums.ChargeKind `gorm:"column:consumed_charge_kind;type:charge_kind"`
	ConsumedAt         *time.Time        `gorm:"column:consumed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
