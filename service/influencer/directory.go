package influencer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/availability"
	"gorm.io/gorm"
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// All returns every influencer in creation order. This is the unrestricted
// list behind the "add any influencer" override.
func (d *Directory) All(ctx context.Context) ([]models.Influencer, error) {
	var influencers []models.Influencer
	if err := d.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&influencers).Error; err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	return influencers, nil
}

// Eligible returns the influencers available on day+shift, in availability
// order. A company slot without availability offers no candidates.
func (d *Directory) Eligible(ctx context.Context, companyID uint, day models.Day, shift models.Shift) ([]models.Influencer, error) {
	db := d.db.WithContext(ctx)
	open, err := availability.Has(db, availability.CompanyOwner(companyID), day, shift)
	if err != nil {
		return nil, err
	}
	if !open {
		return []models.Influencer{}, nil
	}

	var influencers []models.Influencer
	err = db.
		Select("influencers.*").
		Joins("JOIN availabilities ON availabilities.owner_id = influencers.id AND availabilities.owner_type = ?", models.OwnerInfluencer).
		Where("availabilities.day = ? AND availabilities.shift = ?", day, shift).
		Order("availabilities.created_at ASC, availabilities.id ASC").
		Find(&influencers).Error
	if err != nil {
		return nil, fmt.Errorf("eligible influencers: %w", err)
	}
	return influencers, nil
}

func (d *Directory) Get(ctx context.Context, id uint) (models.Influencer, error) {
	var influencer models.Influencer
	if err := d.db.WithContext(ctx).First(&influencer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Influencer{}, utils.NotFound("influencer")
		}
		return models.Influencer{}, err
	}
	return influencer, nil
}

// Search pages through influencers whose name or email contains term.
func (d *Directory) Search(ctx context.Context, term string, page, perPage int) ([]models.Influencer, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Influencer{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var influencers []models.Influencer
	if err := query.Order("name ASC, id ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&influencers).Error; err != nil {
		return nil, 0, err
	}
	return influencers, total, nil
}

func (d *Directory) Create(ctx context.Context, influencer *models.Influencer) error {
	return d.db.WithContext(ctx).Create(influencer).Error
}

func (d *Directory) Update(ctx context.Context, id uint, changes models.Influencer) (models.Influencer, error) {
	influencer, err := d.Get(ctx, id)
	if err != nil {
		return models.Influencer{}, err
	}
	influencer.Name = changes.Name
	influencer.Email = changes.Email
	influencer.Phone = changes.Phone
	influencer.Platforms = changes.Platforms
	if err := d.db.WithContext(ctx).Save(&influencer).Error; err != nil {
		return models.Influencer{}, err
	}
	return influencer, nil
}

// Delete removes the influencer together with its availability and bookings.
func (d *Directory) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Influencer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NotFound("influencer")
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerInfluencer, id).
			Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		return tx.Where("influencer_id = ?", id).Delete(&models.Booking{}).Error
	})
}
