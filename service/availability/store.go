package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"gorm.io/gorm"
)

type Owner struct {
	Type models.OwnerType
	ID   uint
}

func CompanyOwner(id uint) Owner {
	return Owner{Type: models.OwnerCompany, ID: id}
}

func InfluencerOwner(id uint) Owner {
	return Owner{Type: models.OwnerInfluencer, ID: id}
}

type Slot struct {
	Day   models.Day   `json:"day"`
	Shift models.Shift `json:"shift"`
}

// SortSlots orders slots by weekday then shift.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day.Index() < slots[j].Day.Index()
		}
		return slots[i].Shift.Index() < slots[j].Shift.Index()
	})
}

type RemoveResult struct {
	Removed         int64 `json:"removed"`
	BookingsRemoved int64 `json:"bookingsRemoved"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func ownerExists(tx *gorm.DB, owner Owner) error {
	var model interface{}
	switch owner.Type {
	case models.OwnerCompany:
		model = &models.Company{}
	case models.OwnerInfluencer:
		model = &models.Influencer{}
	default:
		return utils.NewValidationError("ownerType", fmt.Sprintf("unknown owner type %q", owner.Type))
	}
	var count int64
	if err := tx.Model(model).Where("id = ?", owner.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound(string(owner.Type))
	}
	return nil
}

// Add records that owner is available at day+shift. Adding an existing pair
// returns the stored row and created=false.
func (s *Store) Add(ctx context.Context, owner Owner, day models.Day, shift models.Shift) (models.Availability, bool, error) {
	tx := s.db.WithContext(ctx)
	if err := ownerExists(tx, owner); err != nil {
		return models.Availability{}, false, err
	}

	row, found, err := findSlot(tx, owner, day, shift)
	if err != nil {
		return models.Availability{}, false, fmt.Errorf("add availability: %w", err)
	}
	if found {
		return row, false, nil
	}

	row = models.Availability{OwnerType: owner.Type, OwnerID: owner.ID, Day: day, Shift: shift}
	if err := tx.Create(&row).Error; err != nil {
		// a concurrent insert of the same key loses to the unique index
		if existing, found, again := findSlot(tx, owner, day, shift); again == nil && found {
			return existing, false, nil
		}
		return models.Availability{}, false, fmt.Errorf("add availability: %w", err)
	}
	return row, true, nil
}

// findSlot looks up one owner slot. A miss is reported through found so the
// expected "not there yet" case never surfaces as a record-not-found error.
func findSlot(tx *gorm.DB, owner Owner, day models.Day, shift models.Shift) (models.Availability, bool, error) {
	var row models.Availability
	result := tx.
		Where("owner_type = ? AND owner_id = ? AND day = ? AND shift = ?", owner.Type, owner.ID, day, shift).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return models.Availability{}, false, result.Error
	}
	return row, result.RowsAffected > 0, nil
}

// Remove deletes every matching row. For companies the bookings of that slot
// are removed in the same transaction. Nothing to remove is not an error.
func (s *Store) Remove(ctx context.Context, owner Owner, day models.Day, shift models.Shift) (RemoveResult, error) {
	var res RemoveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.
			Where("owner_type = ? AND owner_id = ? AND day = ? AND shift = ?", owner.Type, owner.ID, day, shift).
			Delete(&models.Availability{})
		if deleted.Error != nil {
			return deleted.Error
		}
		res.Removed = deleted.RowsAffected

		if owner.Type != models.OwnerCompany {
			return nil
		}
		bookings := tx.
			Where("company_id = ? AND day = ? AND shift = ?", owner.ID, day, shift).
			Delete(&models.Booking{})
		if bookings.Error != nil {
			return bookings.Error
		}
		res.BookingsRemoved = bookings.RowsAffected
		return nil
	})
	if err != nil {
		return RemoveResult{}, fmt.Errorf("remove availability: %w", err)
	}
	return res, nil
}

// ClearInfluencers deletes every influencer availability row. There is no undo.
func (s *Store) ClearInfluencers(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("owner_type = ?", models.OwnerInfluencer).
		Delete(&models.Availability{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear availabilities: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Store) List(ctx context.Context, owner Owner) ([]Slot, error) {
	var rows []models.Availability
	if err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	slots := make([]Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, Slot{Day: row.Day, Shift: row.Shift})
	}
	SortSlots(slots)
	return slots, nil
}

// ByOwnerType returns every row for one owner type in creation order.
func (s *Store) ByOwnerType(ctx context.Context, ownerType models.OwnerType) ([]models.Availability, error) {
	return ByOwnerType(s.db.WithContext(ctx), ownerType)
}

// ByOwnerType is usable inside a caller's transaction.
func ByOwnerType(tx *gorm.DB, ownerType models.OwnerType) ([]models.Availability, error) {
	var rows []models.Availability
	if err := tx.Where("owner_type = ?", ownerType).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Has reports whether owner is available at day+shift.
func Has(tx *gorm.DB, owner Owner, day models.Day, shift models.Shift) (bool, error) {
	var count int64
	err := tx.Model(&models.Availability{}).
		Where("owner_type = ? AND owner_id = ? AND day = ? AND shift = ?", owner.Type, owner.ID, day, shift).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
