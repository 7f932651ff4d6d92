package models

import (
	"time"

	"gorm.io/gorm"
)

// Package is a service bundle sold to a company, counted per week.
type Package struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CompanyID   uint           `gorm:"column:company_id;not null;index" json:"companyId"`
	Name        string         `gorm:"column:name;size:255;not null" json:"name"`
	Price       float64        `gorm:"column:price;not null;default:0" json:"price"`
	Reels       int            `gorm:"column:reels;not null;default:0" json:"reels"`
	Posts       int            `gorm:"column:posts;not null;default:0" json:"posts"`
	Stories     int            `gorm:"column:stories;not null;default:0" json:"stories"`
	Videos      int            `gorm:"column:videos;not null;default:0" json:"videos"`
	WeeklyTotal int            `gorm:"column:weekly_total;not null;default:0" json:"weeklyTotal"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (p Package) Total() int {
	return p.Reels + p.Posts + p.Stories + p.Videos
}

func (p *Package) BeforeSave(tx *gorm.DB) error {
	p.WeeklyTotal = p.Total()
	return nil
}
