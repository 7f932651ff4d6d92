package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Influencer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"column:name;size:255;not null" json:"name"`
	Email     string         `gorm:"column:email;size:255" json:"email,omitempty"`
	Phone     string         `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Platforms pq.StringArray `gorm:"column:platforms;type:text" json:"platforms"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Influencer) TableName() string {
	return "influencers"
}
