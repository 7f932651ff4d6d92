package week

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/db/dbtest"
	"github.com/admusproduccion/admus-server/service/assignment"
	"github.com/admusproduccion/admus-server/service/availability"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func day(s string) datatypes.Date {
	t, _ := time.Parse("2006-01-02", s)
	return datatypes.Date(t)
}

type env struct {
	db       *gorm.DB
	store    *availability.Store
	engine   *assignment.Engine
	composer *Composer
	week     models.Week
}

// newEnv creates the week 2024-W10 (Monday 4 March 2024).
func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	w := models.Week{Name: "2024-W10", StartDate: day("2024-03-04"), EndDate: day("2024-03-10")}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("create week: %v", err)
	}
	return &env{
		db:       db,
		store:    availability.NewStore(db),
		engine:   assignment.NewEngine(db, nil, assignment.Options{}),
		composer: NewComposer(db),
		week:     w,
	}
}

func (e *env) company(t *testing.T, c models.Company, slots ...availability.Slot) models.Company {
	t.Helper()
	if err := e.db.Create(&c).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	for _, s := range slots {
		if _, _, err := e.store.Add(context.Background(), availability.CompanyOwner(c.ID), s.Day, s.Shift); err != nil {
			t.Fatalf("add availability: %v", err)
		}
	}
	return c
}

func (e *env) influencer(t *testing.T, name string, slots ...availability.Slot) models.Influencer {
	t.Helper()
	inf := models.Influencer{Name: name}
	if err := e.db.Create(&inf).Error; err != nil {
		t.Fatalf("create influencer: %v", err)
	}
	for _, s := range slots {
		if _, _, err := e.store.Add(context.Background(), availability.InfluencerOwner(inf.ID), s.Day, s.Shift); err != nil {
			t.Fatalf("add availability: %v", err)
		}
	}
	return inf
}

func (e *env) compose(t *testing.T) *ComposedWeek {
	t.Helper()
	cw, err := e.composer.Compose(context.Background(), e.week.ID)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return cw
}

var mondayMorning = availability.Slot{Day: models.Monday, Shift: models.Morning}

func TestComposeAssignUnassignScenario(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, models.Company{Name: "A"}, mondayMorning)
	x := e.influencer(t, "X", mondayMorning)
	ctx := context.Background()

	bookings, err := e.engine.Assign(ctx, assignment.AssignRequest{CompanyID: a.ID, Day: "monday", Shift: "morning", InfluencerID: x.ID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	cw := e.compose(t)
	if len(cw.PerCompany) != 1 {
		t.Fatalf("perCompany = %d, want 1", len(cw.PerCompany))
	}
	assigned := cw.PerCompany[0].Assigned(models.Monday, models.Morning)
	if len(assigned) != 1 || assigned[0].ID != x.ID || assigned[0].BookingID != bookings[0].ID {
		t.Fatalf("assigned = %+v", assigned)
	}
	if cw.Stats != (Stats{TotalCompanies: 1, TotalAssignments: 1, CompaniesWithWork: 1}) {
		t.Errorf("stats = %+v", cw.Stats)
	}

	if _, err := e.engine.Unassign(ctx, bookings[0].ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	cw = e.compose(t)
	if got := cw.PerCompany[0].Assigned(models.Monday, models.Morning); len(got) != 0 {
		t.Errorf("assigned after unassign = %+v, want empty", got)
	}
	if cw.Stats.TotalAssignments != 0 || cw.Stats.CompaniesWithWork != 0 {
		t.Errorf("stats after unassign = %+v", cw.Stats)
	}
}

func TestComposeUnavailableSlotsHaveNoCandidates(t *testing.T) {
	e := newEnv(t)
	e.company(t, models.Company{Name: "A"}, mondayMorning)
	e.influencer(t, "X", mondayMorning, availability.Slot{Day: models.Monday, Shift: models.Afternoon})

	cw := e.compose(t)
	c := cw.PerCompany[0]
	if !c.Available(models.Monday, models.Morning) {
		t.Error("monday morning should be available")
	}
	for _, d := range models.Days {
		for _, s := range models.Shifts {
			if d == models.Monday && s == models.Morning {
				continue
			}
			if c.Available(d, s) {
				t.Errorf("%s %s should be unavailable", d, s)
			}
			if c.Candidates(d, s) != nil {
				t.Errorf("%s %s offers candidates %v", d, s, c.Candidates(d, s))
			}
		}
	}
	if got := c.Candidates(models.Monday, models.Morning); len(got) != 1 || got[0].Name != "X" {
		t.Errorf("candidates = %+v", got)
	}
}

func TestComposeBookingStaysInItsSlot(t *testing.T) {
	e := newEnv(t)
	tuesday := availability.Slot{Day: models.Tuesday, Shift: models.Afternoon}
	a := e.company(t, models.Company{Name: "A"}, mondayMorning, tuesday)
	b := e.company(t, models.Company{Name: "B"}, mondayMorning)
	x := e.influencer(t, "X")
	y := e.influencer(t, "Y")
	ctx := context.Background()

	first, _ := e.engine.Assign(ctx, assignment.AssignRequest{CompanyID: a.ID, Day: "monday", Shift: "morning", InfluencerID: x.ID})
	e.engine.Assign(ctx, assignment.AssignRequest{CompanyID: a.ID, Day: "tuesday", Shift: "afternoon", InfluencerID: x.ID})
	e.engine.Assign(ctx, assignment.AssignRequest{CompanyID: b.ID, Day: "monday", Shift: "morning", InfluencerIDs: []uint{x.ID, y.ID}})

	if _, err := e.engine.Unassign(ctx, first[0].ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}

	cw := e.compose(t)
	if len(cw.PerCompany) != 2 {
		t.Fatalf("perCompany = %d", len(cw.PerCompany))
	}
	ca, cb := cw.PerCompany[0], cw.PerCompany[1]
	if n := len(ca.Assigned(models.Monday, models.Morning)); n != 0 {
		t.Errorf("A monday morning = %d, want 0", n)
	}
	if n := len(ca.Assigned(models.Tuesday, models.Afternoon)); n != 1 {
		t.Errorf("A tuesday afternoon = %d, want 1", n)
	}
	got := cb.Assigned(models.Monday, models.Morning)
	if len(got) != 2 || got[0].Name != "X" || got[1].Name != "Y" {
		t.Errorf("B monday morning = %+v", got)
	}
	if cw.Stats.TotalAssignments != 3 || cw.Stats.CompaniesWithWork != 2 {
		t.Errorf("stats = %+v", cw.Stats)
	}
	if ca.Color != ColorFor(0) || cb.Color != ColorFor(1) {
		t.Errorf("colors = %s, %s", ca.Color, cb.Color)
	}
}

func TestComposeAfterClearingInfluencerAvailability(t *testing.T) {
	e := newEnv(t)
	e.company(t, models.Company{Name: "A"}, mondayMorning)
	e.influencer(t, "X", mondayMorning)
	e.influencer(t, "Y", mondayMorning)

	if _, err := e.store.ClearInfluencers(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cw := e.compose(t)
	for _, c := range cw.PerCompany {
		for d, shifts := range c.InfluencersAvailable {
			for s, list := range shifts {
				if len(list) != 0 {
					t.Errorf("%s %s %s still offers %v", c.Company.Name, d, s, list)
				}
			}
		}
	}
}

func TestComposeEmptyWeek(t *testing.T) {
	e := newEnv(t)
	e.company(t, models.Company{Name: "No slots"})
	e.influencer(t, "X", mondayMorning)

	cw := e.compose(t)
	if cw.PerCompany == nil || len(cw.PerCompany) != 0 {
		t.Errorf("perCompany = %#v, want empty list", cw.PerCompany)
	}
	if cw.Stats != (Stats{}) {
		t.Errorf("stats = %+v, want zeroes", cw.Stats)
	}
	if len(cw.Days) != 7 || cw.Days[0].Name != models.Monday || cw.Days[0].Date != "2024-03-04" || cw.Days[6].Date != "2024-03-10" {
		t.Errorf("days = %+v", cw.Days)
	}
}

func TestComposeSkipsCompaniesOutsideTheirValidity(t *testing.T) {
	e := newEnv(t)
	expired := day("2024-02-29")
	future := day("2024-03-11")
	current := day("2024-03-08")
	e.company(t, models.Company{Name: "Expired", ValidTo: &expired}, mondayMorning)
	e.company(t, models.Company{Name: "Future", ValidFrom: &future}, mondayMorning)
	e.company(t, models.Company{Name: "Current", ValidFrom: &current}, mondayMorning)

	cw := e.compose(t)
	if len(cw.PerCompany) != 1 || cw.PerCompany[0].Company.Name != "Current" {
		names := []string{}
		for _, c := range cw.PerCompany {
			names = append(names, c.Company.Name)
		}
		t.Errorf("companies = %v, want [Current]", names)
	}
}

func TestComposeUnknownWeek(t *testing.T) {
	e := newEnv(t)
	_, err := e.composer.Compose(context.Background(), 999)
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCurrentWeek(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	w, err := e.composer.Current(ctx, time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC))
	if err != nil || w.ID != e.week.ID {
		t.Fatalf("current inside week = %+v, %v", w, err)
	}

	w, err = e.composer.Current(ctx, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	if err != nil || w.ID != e.week.ID {
		t.Fatalf("current after week = %+v, %v", w, err)
	}

	_, err = e.composer.Current(ctx, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("current before any week err = %v, want not found", err)
	}
}
