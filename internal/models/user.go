package models

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	BranchID     *uint
	Branch       *Branch
	Name         string `gorm:"size:100;not null"`
	Username     string `gorm:"size:100;uniqueIndex;not null"`
	Email        string `gorm:"size:100;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
