package week

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/availability"
	"github.com/admusproduccion/admus-server/service/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type InfluencerRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AssignedInfluencer struct {
	InfluencerRef
	BookingID uint   `json:"bookingId"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

type CompanyWeek struct {
	Company              models.Company                                       `json:"company"`
	Color                string                                               `json:"color"`
	Availability         map[models.Day][]models.Shift                        `json:"availability"`
	InfluencersAvailable map[models.Day]map[models.Shift][]InfluencerRef      `json:"influencersAvailable"`
	InfluencersAssigned  map[models.Day]map[models.Shift][]AssignedInfluencer `json:"influencersAssigned"`
}

func (c CompanyWeek) Available(day models.Day, shift models.Shift) bool {
	for _, s := range c.Availability[day] {
		if s == shift {
			return true
		}
	}
	return false
}

// Candidates is nil for a slot without availability.
func (c CompanyWeek) Candidates(day models.Day, shift models.Shift) []InfluencerRef {
	return c.InfluencersAvailable[day][shift]
}

func (c CompanyWeek) Assigned(day models.Day, shift models.Shift) []AssignedInfluencer {
	return c.InfluencersAssigned[day][shift]
}

type Stats struct {
	TotalCompanies    int `json:"totalCompanies"`
	TotalAssignments  int `json:"totalAssignments"`
	CompaniesWithWork int `json:"companiesWithWork"`
}

type ComposedWeek struct {
	Week       models.Week      `json:"week"`
	Days       []models.WeekDay `json:"days"`
	PerCompany []CompanyWeek    `json:"perCompany"`
	Stats      Stats            `json:"stats"`
}

// Summarize derives the summary band counts from a composed matrix.
func Summarize(perCompany []CompanyWeek) Stats {
	stats := Stats{TotalCompanies: len(perCompany)}
	for _, c := range perCompany {
		n := 0
		for _, shifts := range c.InfluencersAssigned {
			for _, assigned := range shifts {
				n += len(assigned)
			}
		}
		stats.TotalAssignments += n
		if n > 0 {
			stats.CompaniesWithWork++
		}
	}
	return stats
}

type Composer struct {
	db *gorm.DB
}

func NewComposer(db *gorm.DB) *Composer {
	return &Composer{db: db}
}

func (c *Composer) Week(ctx context.Context, weekID uint) (models.Week, error) {
	var week models.Week
	if err := c.db.WithContext(ctx).First(&week, weekID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Week{}, utils.NotFound("week")
		}
		return models.Week{}, err
	}
	return week, nil
}

// Current picks the week containing now, falling back to the latest week
// that has already started.
func (c *Composer) Current(ctx context.Context, now time.Time) (models.Week, error) {
	db := c.db.WithContext(ctx)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var week models.Week
	err := db.Where("start_date <= ? AND end_date >= ?", today, today).Order("start_date DESC").First(&week).Error
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Week{}, err
	}
	err = db.Where("start_date <= ?", today).Order("start_date DESC").First(&week).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Week{}, utils.NotFound("current week")
	}
	return week, err
}

// Compose builds the per-company matrix for a week. Lists keep record
// creation order.
func (c *Composer) Compose(ctx context.Context, weekID uint) (*ComposedWeek, error) {
	timer := prometheus.NewTimer(metrics.ComposeDuration)
	defer timer.ObserveDuration()

	week, err := c.Week(ctx, weekID)
	if err != nil {
		return nil, err
	}
	db := c.db.WithContext(ctx)

	companyRows, err := availability.ByOwnerType(db, models.OwnerCompany)
	if err != nil {
		return nil, fmt.Errorf("company availability: %w", err)
	}
	influencerRows, err := availability.ByOwnerType(db, models.OwnerInfluencer)
	if err != nil {
		return nil, fmt.Errorf("influencer availability: %w", err)
	}

	var companies []models.Company
	if err := db.Order("id ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	var influencers []models.Influencer
	if err := db.Find(&influencers).Error; err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := db.Order("created_at ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(influencers))
	for _, inf := range influencers {
		names[inf.ID] = inf.Name
	}

	type slot struct {
		day   models.Day
		shift models.Shift
	}
	candidates := make(map[slot][]InfluencerRef)
	for _, row := range influencerRows {
		name, ok := names[row.OwnerID]
		if !ok {
			continue
		}
		key := slot{row.Day, row.Shift}
		candidates[key] = append(candidates[key], InfluencerRef{ID: row.OwnerID, Name: name})
	}

	companySlots := make(map[uint][]availability.Slot)
	for _, row := range companyRows {
		companySlots[row.OwnerID] = append(companySlots[row.OwnerID], availability.Slot{Day: row.Day, Shift: row.Shift})
	}

	type companySlot struct {
		companyID uint
		slot
	}
	assigned := make(map[companySlot][]AssignedInfluencer)
	for _, b := range bookings {
		name, ok := names[b.InfluencerID]
		if !ok {
			continue
		}
		key := companySlot{b.CompanyID, slot{b.Day, b.Shift}}
		assigned[key] = append(assigned[key], AssignedInfluencer{
			InfluencerRef: InfluencerRef{ID: b.InfluencerID, Name: name},
			BookingID:     b.ID,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
		})
	}

	start, end := week.Range()
	perCompany := []CompanyWeek{}
	for _, company := range companies {
		slots := companySlots[company.ID]
		if len(slots) == 0 || !company.ActiveBetween(start, end) {
			continue
		}
		availability.SortSlots(slots)

		cw := CompanyWeek{
			Company:              company,
			Color:                ColorFor(len(perCompany)),
			Availability:         make(map[models.Day][]models.Shift),
			InfluencersAvailable: make(map[models.Day]map[models.Shift][]InfluencerRef),
			InfluencersAssigned:  make(map[models.Day]map[models.Shift][]AssignedInfluencer),
		}
		for _, s := range slots {
			cw.Availability[s.Day] = append(cw.Availability[s.Day], s.Shift)
			if cw.InfluencersAvailable[s.Day] == nil {
				cw.InfluencersAvailable[s.Day] = make(map[models.Shift][]InfluencerRef)
				cw.InfluencersAssigned[s.Day] = make(map[models.Shift][]AssignedInfluencer)
			}
			key := slot{s.Day, s.Shift}
			cw.InfluencersAvailable[s.Day][s.Shift] = append([]InfluencerRef{}, candidates[key]...)
			cw.InfluencersAssigned[s.Day][s.Shift] = append([]AssignedInfluencer{}, assigned[companySlot{company.ID, key}]...)
		}
		perCompany = append(perCompany, cw)
	}

	return &ComposedWeek{
		Week:       week,
		Days:       week.Days(),
		PerCompany: perCompany,
		Stats:      Summarize(perCompany),
	}, nil
}
