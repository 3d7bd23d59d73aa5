package models

import "time"

type Branch struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"` // stored upper-case
	Description string `gorm:"size:255;not null"`
	RegionID    uint   `gorm:"index;not null"`
	Region      Region
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
