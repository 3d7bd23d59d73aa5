package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection: actual collected amount for a branch in a given month/year.
// Target is copied from the matching Target record at creation time;
// Due and Percentage are derived, never set independently.
type Collection struct {
	ID               uint            `gorm:"primaryKey"`
	Target           decimal.Decimal `gorm:"type:numeric(10,2)"`
	Due              decimal.Decimal `gorm:"type:numeric(10,2)"`
	CollectionAmount decimal.Decimal `gorm:"column:collection;type:numeric(10,2)"`
	Percentage       decimal.Decimal `gorm:"type:numeric(5,2)"`
	Year             int             `gorm:"not null;uniqueIndex:idx_collections_branch_period"`
	Month            int             `gorm:"not null;uniqueIndex:idx_collections_branch_period"` // 1-12
	BranchID         uint            `gorm:"not null;uniqueIndex:idx_collections_branch_period"`
	Branch           Branch
	CreatedByID      uint `gorm:"not null"`
	CreatedBy        User `gorm:"foreignKey:CreatedByID"`
	ModifiedByID     *uint
	ModifiedBy       *User `gorm:"foreignKey:ModifiedByID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
