package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Company struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Name      string          `gorm:"column:name;size:255;not null" json:"name"`
	Address   string          `gorm:"column:address;size:255" json:"address"`
	Location  string          `gorm:"column:location;size:255" json:"location"`
	ValidFrom *datatypes.Date `gorm:"column:valid_from" json:"validFrom,omitempty"`
	ValidTo   *datatypes.Date `gorm:"column:valid_to" json:"validTo,omitempty"`
	LogoPath  string          `gorm:"column:logo_path;size:255" json:"logoPath,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// ActiveBetween reports whether the validity window overlaps [start, end].
// An open bound never excludes.
func (c Company) ActiveBetween(start, end time.Time) bool {
	if c.ValidFrom != nil && time.Time(*c.ValidFrom).After(end) {
		return false
	}
	if c.ValidTo != nil && time.Time(*c.ValidTo).Before(start) {
		return false
	}
	return true
}
