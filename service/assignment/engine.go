package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/availability"
	"github.com/admusproduccion/admus-server/service/events"
	"github.com/admusproduccion/admus-server/service/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Options struct {
	// RejectDoubleBooking refuses to book an influencer twice on the same
	// day+shift. Off by default: simultaneous bookings are allowed.
	RejectDoubleBooking bool
}

type Engine struct {
	db       *gorm.DB
	notifier events.Notifier
	opts     Options
}

func NewEngine(db *gorm.DB, notifier events.Notifier, opts Options) *Engine {
	if notifier == nil {
		notifier = events.Multi{}
	}
	return &Engine{db: db, notifier: notifier, opts: opts}
}

type AssignRequest struct {
	CompanyID     uint   `json:"companyId" validate:"required"`
	Day           string `json:"day" validate:"required,weekday"`
	Shift         string `json:"shift" validate:"required,shift"`
	InfluencerID  uint   `json:"influencerId" validate:"required_without=InfluencerIDs"`
	InfluencerIDs []uint `json:"influencerIds" validate:"required_without=InfluencerID,dive,required"`
	StartTime     string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime       string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// influencers merges InfluencerID and InfluencerIDs, dropping repeats.
func (r AssignRequest) influencers() []uint {
	seen := make(map[uint]bool)
	var ids []uint
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(r.InfluencerID)
	for _, id := range r.InfluencerIDs {
		add(id)
	}
	return ids
}

const clockLayout = "15:04"

// clockRange parses optional HH:MM bounds, which may come with a one-digit
// hour, and returns them zero padded. End must be after start when both are set.
func clockRange(start, end string) (string, string, error) {
	parse := func(field, v string) (time.Time, error) {
		t, err := time.Parse(clockLayout, v)
		if err != nil {
			return time.Time{}, utils.NewValidationError(field, "must match the format 15:04")
		}
		return t, nil
	}

	var from, to time.Time
	var err error
	if start != "" {
		if from, err = parse("startTime", start); err != nil {
			return "", "", err
		}
		start = from.Format(clockLayout)
	}
	if end != "" {
		if to, err = parse("endTime", end); err != nil {
			return "", "", err
		}
		end = to.Format(clockLayout)
	}
	if start != "" && end != "" && !to.After(from) {
		return "", "", utils.NewValidationError("endTime", "must be after startTime")
	}
	return start, end, nil
}

// Assign books every requested influencer into one slot in a single
// transaction. Either all bookings are created or none.
func (e *Engine) Assign(ctx context.Context, req AssignRequest) (bookings []models.Booking, err error) {
	defer func() { metrics.Observe("assign", err) }()

	day, err := models.ParseDay(req.Day)
	if err != nil {
		return nil, utils.NewValidationError("day", "must be a weekday name")
	}
	shift, err := models.ParseShift(req.Shift)
	if err != nil {
		return nil, utils.NewValidationError("shift", "must be morning or afternoon")
	}
	ids := req.influencers()
	if len(ids) == 0 {
		return nil, utils.NewValidationError("influencerId", "is required")
	}
	startTime, endTime, err := clockRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var company models.Company
	if err = tx.First(&company, req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("company")
		}
		return nil, err
	}

	available, err := availability.Has(tx, availability.CompanyOwner(company.ID), day, shift)
	if err != nil {
		return nil, err
	}
	if !available {
		err = utils.NewValidationError("shift", fmt.Sprintf("%s has no availability on %s %s", company.Name, day, shift))
		return nil, err
	}

	for _, id := range ids {
		var influencer models.Influencer
		if err = tx.First(&influencer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = utils.NotFound(fmt.Sprintf("influencer %d", id))
			}
			return nil, err
		}

		if e.opts.RejectDoubleBooking {
			var busy int64
			if err = tx.Model(&models.Booking{}).
				Where("influencer_id = ? AND day = ? AND shift = ?", id, day, shift).
				Count(&busy).Error; err != nil {
				return nil, err
			}
			if busy > 0 {
				err = fmt.Errorf("%s is already booked on %s %s: %w", influencer.Name, day, shift, utils.ErrConflict)
				return nil, err
			}
		}

		booking := models.Booking{
			CompanyID:    company.ID,
			InfluencerID: id,
			Day:          day,
			Shift:        shift,
			StartTime:    startTime,
			EndTime:      endTime,
		}
		if err = tx.Create(&booking).Error; err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}
		inf := influencer
		booking.Company = &company
		booking.Influencer = &inf
		bookings = append(bookings, booking)
	}

	if err = tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit bookings: %w", err)
	}

	for _, b := range bookings {
		e.notifier.Notify(events.Event{Type: events.BookingCreated, Payload: b})
	}
	return bookings, nil
}

// Unassign removes exactly one booking.
func (e *Engine) Unassign(ctx context.Context, bookingID uint) (booking models.Booking, err error) {
	defer func() { metrics.Observe("unassign", err) }()

	db := e.db.WithContext(ctx)
	if err = db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("booking")
		}
		return models.Booking{}, err
	}

	result := db.Delete(&models.Booking{}, booking.ID)
	if result.Error != nil {
		err = result.Error
		return models.Booking{}, err
	}
	if result.RowsAffected == 0 {
		err = utils.NotFound("booking")
		return models.Booking{}, err
	}

	e.notifier.Notify(events.Event{Type: events.BookingRemoved, Payload: booking})
	return booking, nil
}

// ClearSlot removes every booking of one company slot.
func (e *Engine) ClearSlot(ctx context.Context, companyID uint, day models.Day, shift models.Shift) (removed int64, err error) {
	defer func() { metrics.Observe("clear_slot", err) }()

	result := e.db.WithContext(ctx).
		Where("company_id = ? AND day = ? AND shift = ?", companyID, day, shift).
		Delete(&models.Booking{})
	if result.Error != nil {
		err = result.Error
		return 0, err
	}

	e.notifier.Notify(events.Event{Type: events.SlotCleared, Payload: map[string]interface{}{
		"companyId": companyID,
		"day":       day,
		"shift":     shift,
		"removed":   result.RowsAffected,
	}})
	return result.RowsAffected, nil
}

const (
	OutcomeAssigned = "assigned"
	OutcomeSkipped  = "skipped"
)

type SlotOutcome struct {
	CompanyID      uint         `json:"companyId"`
	CompanyName    string       `json:"companyName"`
	Day            models.Day   `json:"day"`
	Shift          models.Shift `json:"shift"`
	Status         string       `json:"status"`
	InfluencerID   uint         `json:"influencerId,omitempty"`
	InfluencerName string       `json:"influencerName,omitempty"`
	BookingID      uint         `json:"bookingId,omitempty"`
	Reason         string       `json:"reason,omitempty"`
}

type BulkResult struct {
	Message string        `json:"message"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Detail  []SlotOutcome `json:"detail"`
}

type slotKey struct {
	day   models.Day
	shift models.Shift
}

type companySlot struct {
	companyID uint
	slotKey
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func bulkMessage(created, skipped int) string {
	return plural(created, "new assignment", "new assignments") + " created, " +
		plural(skipped, "slot", "slots") + " skipped"
}

// BulkAssign fills every available company slot that has no booking with
// one eligible influencer. Candidates not yet busy on that day+shift come
// first, then the least loaded, then availability order. The whole batch is
// one transaction.
func (e *Engine) BulkAssign(ctx context.Context) (result *BulkResult, err error) {
	timer := prometheus.NewTimer(metrics.BulkAssignDuration)
	defer timer.ObserveDuration()
	defer func() { metrics.Observe("bulk_assign", err) }()

	var created []models.Booking
	result = &BulkResult{Detail: []SlotOutcome{}}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companyRows, err := availability.ByOwnerType(tx, models.OwnerCompany)
		if err != nil {
			return err
		}
		influencerRows, err := availability.ByOwnerType(tx, models.OwnerInfluencer)
		if err != nil {
			return err
		}

		var companies []models.Company
		if err := tx.Find(&companies).Error; err != nil {
			return err
		}
		companyByID := make(map[uint]*models.Company, len(companies))
		for i := range companies {
			companyByID[companies[i].ID] = &companies[i]
		}

		var influencers []models.Influencer
		if err := tx.Find(&influencers).Error; err != nil {
			return err
		}
		influencerByID := make(map[uint]*models.Influencer, len(influencers))
		for i := range influencers {
			influencerByID[influencers[i].ID] = &influencers[i]
		}

		candidates := make(map[slotKey][]uint)
		for _, row := range influencerRows {
			if _, ok := influencerByID[row.OwnerID]; !ok {
				continue
			}
			key := slotKey{row.Day, row.Shift}
			candidates[key] = append(candidates[key], row.OwnerID)
		}

		var existing []models.Booking
		if err := tx.Find(&existing).Error; err != nil {
			return err
		}
		occupied := make(map[companySlot]bool)
		load := make(map[uint]int)
		busy := make(map[uint]map[slotKey]bool)
		markBusy := func(influencerID uint, key slotKey) {
			if busy[influencerID] == nil {
				busy[influencerID] = make(map[slotKey]bool)
			}
			busy[influencerID][key] = true
		}
		for _, b := range existing {
			key := slotKey{b.Day, b.Shift}
			occupied[companySlot{b.CompanyID, key}] = true
			load[b.InfluencerID]++
			markBusy(b.InfluencerID, key)
		}

		var open []companySlot
		for _, row := range companyRows {
			if _, ok := companyByID[row.OwnerID]; !ok {
				continue
			}
			cs := companySlot{row.OwnerID, slotKey{row.Day, row.Shift}}
			if !occupied[cs] {
				open = append(open, cs)
			}
		}
		sort.SliceStable(open, func(i, j int) bool {
			a, b := open[i], open[j]
			if a.companyID != b.companyID {
				return a.companyID < b.companyID
			}
			if a.day != b.day {
				return a.day.Index() < b.day.Index()
			}
			return a.shift.Index() < b.shift.Index()
		})

		for _, cs := range open {
			company := companyByID[cs.companyID]
			outcome := SlotOutcome{
				CompanyID:   company.ID,
				CompanyName: company.Name,
				Day:         cs.day,
				Shift:       cs.shift,
			}

			pool := make([]uint, 0, len(candidates[cs.slotKey]))
			for _, id := range candidates[cs.slotKey] {
				if e.opts.RejectDoubleBooking && busy[id][cs.slotKey] {
					continue
				}
				pool = append(pool, id)
			}
			if len(pool) == 0 {
				outcome.Status = OutcomeSkipped
				if len(candidates[cs.slotKey]) == 0 {
					outcome.Reason = "no influencer available for this day and shift"
				} else {
					outcome.Reason = "every available influencer is already booked for this day and shift"
				}
				result.Detail = append(result.Detail, outcome)
				result.Skipped++
				continue
			}

			sort.SliceStable(pool, func(i, j int) bool {
				bi, bj := busy[pool[i]][cs.slotKey], busy[pool[j]][cs.slotKey]
				if bi != bj {
					return !bi
				}
				return load[pool[i]] < load[pool[j]]
			})
			pick := influencerByID[pool[0]]

			booking := models.Booking{
				CompanyID:    company.ID,
				InfluencerID: pick.ID,
				Day:          cs.day,
				Shift:        cs.shift,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return fmt.Errorf("create booking for %s %s %s: %w", company.Name, cs.day, cs.shift, err)
			}
			booking.Company = company
			booking.Influencer = pick
			created = append(created, booking)

			load[pick.ID]++
			markBusy(pick.ID, cs.slotKey)

			outcome.Status = OutcomeAssigned
			outcome.InfluencerID = pick.ID
			outcome.InfluencerName = pick.Name
			outcome.BookingID = booking.ID
			result.Detail = append(result.Detail, outcome)
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk assign: %w", err)
	}

	result.Message = bulkMessage(result.Created, result.Skipped)
	for _, b := range created {
		e.notifier.Notify(events.Event{Type: events.BookingCreated, Payload: b})
	}
	e.notifier.Notify(events.Event{Type: events.BulkAssigned, Payload: result})
	return result, nil
}
