package models

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    Day
		wantErr bool
	}{
		{"monday", Monday, false},
		{" Sunday ", Sunday, false},
		{"lunes", Monday, false},
		{"Miércoles", Wednesday, false},
		{"miercoles", Wednesday, false},
		{"SÁBADO", Saturday, false},
		{"", "", true},
		{"funday", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDay(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDay(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestParseShift(t *testing.T) {
	tests := []struct {
		in      string
		want    Shift
		wantErr bool
	}{
		{"morning", Morning, false},
		{"Afternoon", Afternoon, false},
		{"mañana", Morning, false},
		{"tarde", Afternoon, false},
		{"night", "", true},
		{"noche", "", true},
	}
	for _, tt := range tests {
		got, err := ParseShift(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseShift(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDayOf(t *testing.T) {
	// 4 March 2024 was a Monday.
	start := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	for i, want := range Days {
		if got := DayOf(start.AddDate(0, 0, i)); got != want {
			t.Errorf("DayOf(+%d) = %s, want %s", i, got, want)
		}
	}
	if Sunday.Index() != 6 || Afternoon.Index() != 1 || Day("x").Index() != -1 {
		t.Error("unexpected index")
	}
}

func date(s string) datatypes.Date {
	t, _ := time.Parse("2006-01-02", s)
	return datatypes.Date(t)
}

func TestWeekDaysAndRange(t *testing.T) {
	w := Week{StartDate: date("2024-03-04"), EndDate: date("2024-03-10")}
	days := w.Days()
	if len(days) != 7 || days[0] != (WeekDay{Name: Monday, Date: "2024-03-04"}) || days[6] != (WeekDay{Name: Sunday, Date: "2024-03-10"}) {
		t.Errorf("days = %+v", days)
	}

	start, end := w.Range()
	if !start.Equal(time.Time(w.StartDate)) || end.Format("2006-01-02") != "2024-03-10" || !end.Before(time.Time(date("2024-03-11"))) {
		t.Errorf("range = %v .. %v", start, end)
	}

	inverted := Week{StartDate: date("2024-03-04"), EndDate: date("2024-03-01")}
	if _, end := inverted.Range(); end.Format("2006-01-02") != "2024-03-10" {
		t.Errorf("inverted range end = %v", end)
	}
}

func TestCompanyActiveBetween(t *testing.T) {
	w := Week{StartDate: date("2024-03-04"), EndDate: date("2024-03-10")}
	start, end := w.Range()
	ptr := func(s string) *datatypes.Date {
		d := date(s)
		return &d
	}
	tests := []struct {
		name string
		c    Company
		want bool
	}{
		{"open", Company{}, true},
		{"ends mid week", Company{ValidTo: ptr("2024-03-06")}, true},
		{"ended before", Company{ValidTo: ptr("2024-03-03")}, false},
		{"starts on sunday", Company{ValidFrom: ptr("2024-03-10")}, true},
		{"starts after", Company{ValidFrom: ptr("2024-03-11")}, false},
		{"covers week", Company{ValidFrom: ptr("2024-01-01"), ValidTo: ptr("2024-12-31")}, true},
	}
	for _, tt := range tests {
		if got := tt.c.ActiveBetween(start, end); got != tt.want {
			t.Errorf("%s: ActiveBetween = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPackageTotal(t *testing.T) {
	p := Package{Reels: 2, Posts: 3, Stories: 4, Videos: 1}
	if err := p.BeforeSave(nil); err != nil {
		t.Fatal(err)
	}
	if p.WeeklyTotal != 10 {
		t.Errorf("weeklyTotal = %d, want 10", p.WeeklyTotal)
	}
	if PriorityHigh.Rank() >= PriorityMedium.Rank() || PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Error("priority ranks out of order")
	}
}
