package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the canonical weekdays in display order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"lunes":     Monday,
	"martes":    Tuesday,
	"miercoles": Wednesday,
	"miércoles": Wednesday,
	"jueves":    Thursday,
	"viernes":   Friday,
	"sabado":    Saturday,
	"sábado":    Saturday,
	"domingo":   Sunday,
}

// ParseDay accepts english or spanish weekday names in any case.
func ParseDay(s string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		if string(d) == v {
			return d, nil
		}
	}
	if d, ok := dayAliases[v]; ok {
		return d, nil
	}
	return "", fmt.Errorf("invalid day %q", s)
}

// Index returns the position of the day in Days, or -1.
func (d Day) Index() int {
	for i, x := range Days {
		if x == d {
			return i
		}
	}
	return -1
}

func DayOf(t time.Time) Day {
	// time.Weekday starts on Sunday
	return Days[(int(t.Weekday())+6)%7]
}

type Shift string

const (
	Morning   Shift = "morning"
	Afternoon Shift = "afternoon"
)

// Shifts is the company-availability shift vocabulary.
var Shifts = []Shift{Morning, Afternoon}

var shiftAliases = map[string]Shift{
	"manana": Morning,
	"mañana": Morning,
	"tarde":  Afternoon,
}

func ParseShift(s string) (Shift, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, sh := range Shifts {
		if string(sh) == v {
			return sh, nil
		}
	}
	if sh, ok := shiftAliases[v]; ok {
		return sh, nil
	}
	return "", fmt.Errorf("invalid shift %q", s)
}

func (s Shift) Index() int {
	for i, x := range Shifts {
		if x == s {
			return i
		}
	}
	return -1
}

type OwnerType string

const (
	OwnerCompany    OwnerType = "company"
	OwnerInfluencer OwnerType = "influencer"
)

// Availability has no soft delete so a removed (owner, day, shift) can be added again.
type Availability struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerType OwnerType `gorm:"column:owner_type;size:20;not null;uniqueIndex:idx_availability_slot" json:"ownerType"`
	OwnerID   uint      `gorm:"column:owner_id;not null;uniqueIndex:idx_availability_slot" json:"ownerId"`
	Day       Day       `gorm:"column:day;size:20;not null;uniqueIndex:idx_availability_slot" json:"day"`
	Shift     Shift     `gorm:"column:shift;size:20;not null;uniqueIndex:idx_availability_slot" json:"shift"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Availability) TableName() string {
	return "availabilities"
}

type Booking struct {
	ID           uint           `gorm:"primarykey" json:"bookingId"`
	CompanyID    uint           `gorm:"column:company_id;not null;index:idx_booking_slot" json:"companyId"`
	InfluencerID uint           `gorm:"column:influencer_id;not null;index" json:"influencerId"`
	Day          Day            `gorm:"column:day;size:20;not null;index:idx_booking_slot" json:"day"`
	Shift        Shift          `gorm:"column:shift;size:20;not null;index:idx_booking_slot" json:"shift"`
	StartTime    string         `gorm:"column:start_time;size:5" json:"startTime,omitempty"`
	EndTime      string         `gorm:"column:end_time;size:5" json:"endTime,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Company    *Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Influencer *Influencer `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
