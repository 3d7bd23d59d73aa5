package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Target: planned collection amount for a branch in a given month/year.
// (branch_id, year, month) is unique so a second insert for the same
// period fails at the store instead of silently duplicating.
type Target struct {
	ID           uint            `gorm:"primaryKey"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Year         int             `gorm:"not null;uniqueIndex:idx_targets_branch_period"`
	Month        int             `gorm:"not null;uniqueIndex:idx_targets_branch_period"` // 1-12
	BranchID     uint            `gorm:"not null;uniqueIndex:idx_targets_branch_period"`
	Branch       Branch
	CreatedByID  uint `gorm:"not null"`
	CreatedBy    User `gorm:"foreignKey:CreatedByID"`
	ModifiedByID *uint
	ModifiedBy   *User `gorm:"foreignKey:ModifiedByID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
