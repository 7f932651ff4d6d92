package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Week struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"column:name;size:100;not null" json:"name"`
	StartDate datatypes.Date `gorm:"column:start_date;not null" json:"startDate"`
	EndDate   datatypes.Date `gorm:"column:end_date;not null" json:"endDate"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Week) TableName() string {
	return "weeks"
}

type WeekDay struct {
	Name Day    `json:"name"`
	Date string `json:"date"`
}

// Days enumerates the seven calendar days starting at StartDate.
func (w Week) Days() []WeekDay {
	start := time.Time(w.StartDate)
	days := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, WeekDay{Name: DayOf(d), Date: d.Format("2006-01-02")})
	}
	return days
}

// Range returns the first and last instant covered by the week.
func (w Week) Range() (time.Time, time.Time) {
	start := time.Time(w.StartDate)
	end := time.Time(w.EndDate)
	if end.Before(start) {
		end = start.AddDate(0, 0, 6)
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
