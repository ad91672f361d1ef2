package models

import (
	"time"

	"github.com/google/uuid"
)

// Child is an enrolled child. MealPriceBani is the per-day absence rate in
// minor currency units; absence credits are derived from it.
type Child struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id;type:uuid;not null;index"`
	GroupID        *uuid.UUID `gorm:"column:group_id;type:uuid;index"`
	ParentID       uuid.UUID  `gorm:"column:parent_id;type:uuid;not null;index"`
	FirstName      string     `gorm:"column:first_name;not null"`
	LastName       string     `gorm:"column:last_name;not null"`
	BirthDate      *time.Time `gorm:"column:birth_date"`
	MealPriceBani  int64      `gorm:"column:meal_price_bani;not null;default:0"`
	MonthlyFeeBani int64      `gorm:"column:monthly_fee_bani;not null;default:0"`
	Active         bool       `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
