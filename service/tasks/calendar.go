package tasks

import (
	"context"
	"sort"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// CompanyTasks is one calendar row. Cells are keyed by date (YYYY-MM-DD)
// in the month view and by weekday in the week view.
type CompanyTasks struct {
	Company models.Company           `json:"company"`
	Cells   map[string][]models.Task `json:"cells"`
}

type Calendar struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Companies []CompanyTasks `json:"companies"`
}

// SortTasks orders a cell: alta, media, baja, then date and id.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		da, db := time.Time(a.Date), time.Time(b.Date)
		if !da.Equal(db) {
			return da.Before(db)
		}
		return a.ID < b.ID
	})
}

type CalendarService struct {
	db *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{db: db}
}

func (s *CalendarService) between(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("Type").
		Preload("Assignments").
		Where("date >= ? AND date < ?", from, to).
		Order("company_id ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

func group(tasks []models.Task, key func(models.Task) string) []CompanyTasks {
	rows := []CompanyTasks{}
	index := make(map[uint]int)
	for _, t := range tasks {
		i, ok := index[t.CompanyID]
		if !ok {
			row := CompanyTasks{Cells: make(map[string][]models.Task)}
			if t.Company != nil {
				row.Company = *t.Company
			} else {
				row.Company.ID = t.CompanyID
			}
			rows = append(rows, row)
			i = len(rows) - 1
			index[t.CompanyID] = i
		}
		t.Company = nil
		k := key(t)
		rows[i].Cells[k] = append(rows[i].Cells[k], t)
	}
	for _, row := range rows {
		for _, cell := range row.Cells {
			SortTasks(cell)
		}
	}
	return rows
}

// Month groups the tasks of a calendar month by company, then date.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (*Calendar, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	tasks, err := s.between(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Calendar{
		From: from.Format(dateLayout),
		To:   to.AddDate(0, 0, -1).Format(dateLayout),
		Companies: group(tasks, func(t models.Task) string {
			return time.Time(t.Date).Format(dateLayout)
		}),
	}, nil
}

// Week groups the tasks inside a week's date range by company, then weekday.
func (s *CalendarService) Week(ctx context.Context, week models.Week) (*Calendar, error) {
	start, end := week.Range()
	tasks, err := s.between(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &Calendar{
		From: start.Format(dateLayout),
		To:   end.Format(dateLayout),
		Companies: group(tasks, func(t models.Task) string {
			return string(models.DayOf(time.Time(t.Date)))
		}),
	}, nil
}
