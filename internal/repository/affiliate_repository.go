package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/fundingdesk/fundingdesk/internal/models"
	"gorm.io/gorm"
)

// AffiliateRepository is the affiliate data-access interface. Lookups return
// (nil, nil) when no row matches.
type AffiliateRepository interface {
	GetByID(id uint) (*models.Affiliate, error)
	GetByCode(code string) (*models.Affiliate, error)
	GetByEmail(email string) (*models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	Delete(id uint) error
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)

	CreateRelationship(rel *models.AffiliateRelationship) error
	ListRelationshipsByChild(childID uint) ([]models.AffiliateRelationship, error)

	GetTierByName(name string) (*models.AffiliateTier, error)
	ListTiers() ([]models.AffiliateTier, error)
	ListLevelSettings() ([]models.MLMLevelSetting, error)
}

// GormAffiliateRepository is the GORM-backed affiliate repository.
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates an affiliate repository.
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// GetByID fetches an affiliate by id.
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByCode fetches an affiliate by referral code. Codes are matched exactly
// after whitespace trimming; case is significant.
func (r *GormAffiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	normalized := strings.TrimSpace(code)
	if normalized == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("referral_code = ?", normalized).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByEmail fetches an affiliate by email.
func (r *GormAffiliateRepository) GetByEmail(email string) (*models.Affiliate, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("email = ?", normalized).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// Create inserts an affiliate.
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// UpdateStatus updates an affiliate's status.
func (r *GormAffiliateRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// Delete soft-deletes an affiliate.
func (r *GormAffiliateRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Affiliate{}, id).Error
}

// List queries affiliates.
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if tier := strings.TrimSpace(filter.TierName); tier != "" {
		query = query.Where("tier_name = ?", tier)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(email LIKE ? OR display_name LIKE ? OR referral_code LIKE ?)", like, like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Affiliate
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateRelationship inserts one upward chain edge.
func (r *GormAffiliateRepository) CreateRelationship(rel *models.AffiliateRelationship) error {
	return r.db.Create(rel).Error
}

// ListRelationshipsByChild returns the child's upward chain ordered by level.
func (r *GormAffiliateRepository) ListRelationshipsByChild(childID uint) ([]models.AffiliateRelationship, error) {
	if childID == 0 {
		return []models.AffiliateRelationship{}, nil
	}
	var rows []models.AffiliateRelationship
	if err := r.db.Where("child_affiliate_id = ?", childID).
		Order("level asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTierByName fetches a tier by name.
func (r *GormAffiliateRepository) GetTierByName(name string) (*models.AffiliateTier, error) {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return nil, nil
	}
	var tier models.AffiliateTier
	if err := r.db.Where("name = ?", normalized).First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// ListTiers returns all tiers.
func (r *GormAffiliateRepository) ListTiers() ([]models.AffiliateTier, error) {
	var rows []models.AffiliateTier
	if err := r.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLevelSettings returns MLM level settings ordered by level ascending.
// The row count bounds the chain walk depth.
func (r *GormAffiliateRepository) ListLevelSettings() ([]models.MLMLevelSetting, error) {
	var rows []models.MLMLevelSetting
	if err := r.db.Order("level asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
