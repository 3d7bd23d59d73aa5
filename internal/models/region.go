package models

import "time"

type Region struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"` // stored upper-case
	Description string `gorm:"size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Branches []Branch `gorm:"constraint:OnDelete:CASCADE"`
}
