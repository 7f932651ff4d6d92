package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	FullName     string         `gorm:"column:full_name;size:255;not null" json:"fullName"`
	Email        string         `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string         `gorm:"column:role;size:50;not null;default:staff" json:"role"`
	Active       bool           `gorm:"column:active;not null" json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
