package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	LinkPending = "pendiente"
	LinkPaid    = "pagado"
)

// CompanyLink is a payment link sent to a company for a billing month.
type CompanyLink struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CompanyID uint           `gorm:"column:company_id;not null;index" json:"companyId"`
	Concept   string         `gorm:"column:concept;size:255;not null" json:"concept"`
	URL       string         `gorm:"column:url;size:500;not null" json:"url"`
	Amount    float64        `gorm:"column:amount;not null" json:"amount"`
	Month     string         `gorm:"column:month;size:7;not null;index" json:"month"`
	Status    string         `gorm:"column:status;size:20;not null;default:pendiente" json:"status"`
	PaidAt    *time.Time     `gorm:"column:paid_at" json:"paidAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (CompanyLink) TableName() string {
	return "company_links"
}
