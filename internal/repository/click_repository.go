package repository

import (
	"strings"
	"time"

	"github.com/fundingdesk/fundingdesk/internal/models"
	"gorm.io/gorm"
)

// ClickRepository is the click data-access interface. Click rows are
// append-only; there are no update operations.
type ClickRepository interface {
	Create(click *models.Click) error
	CountRecentBySource(affiliateID uint, sourceAddress string, since time.Time) (int64, error)
	CountByAffiliate(affiliateID uint) (int64, error)
}

// GormClickRepository is the GORM-backed click repository.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a click repository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// Create inserts a click row.
func (r *GormClickRepository) Create(click *models.Click) error {
	return r.db.Create(click).Error
}

// CountRecentBySource counts clicks for the same affiliate and source address
// since the given time. Used for spam suppression.
func (r *GormClickRepository) CountRecentBySource(affiliateID uint, sourceAddress string, since time.Time) (int64, error) {
	if affiliateID == 0 || strings.TrimSpace(sourceAddress) == "" {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Click{}).
		Where("affiliate_id = ? AND source_address = ? AND created_at >= ?",
			affiliateID,
			strings.TrimSpace(sourceAddress),
			since,
		).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByAffiliate counts all clicks for an affiliate.
func (r *GormClickRepository) CountByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Click{}).Where("affiliate_id = ?", affiliateID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
