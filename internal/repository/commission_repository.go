package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRepository covers conversions and commissions. Both are unique
// per (affiliate, application); callers check-then-insert.
type CommissionRepository interface {
	GetConversion(affiliateID, applicationID uint) (*models.Conversion, error)
	CreateConversion(conversion *models.Conversion) error
	CountConversionsByAffiliate(affiliateID uint) (int64, error)

	GetCommission(affiliateID, applicationID uint) (*models.Commission, error)
	CreateCommission(commission *models.Commission) error
	UpdateCommission(commission *models.Commission) error
	ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListCommissionsByApplication(applicationID uint) ([]models.Commission, error)
	SumCommissionsByAffiliate(affiliateID uint, statuses []string) (decimal.Decimal, error)
	CountCommissionsByAffiliate(affiliateID uint, statuses []string) (int64, error)
	MarkCommissionsPaid(ids []uint, paidAt time.Time) (int64, error)
}

// GormCommissionRepository is the GORM-backed commission repository.
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a commission repository.
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// GetConversion fetches the conversion for (affiliate, application).
func (r *GormCommissionRepository) GetConversion(affiliateID, applicationID uint) (*models.Conversion, error) {
	if affiliateID == 0 || applicationID == 0 {
		return nil, nil
	}
	var conversion models.Conversion
	if err := r.db.Where("affiliate_id = ? AND application_id = ?", affiliateID, applicationID).
		First(&conversion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversion, nil
}

// CreateConversion inserts a conversion row.
func (r *GormCommissionRepository) CreateConversion(conversion *models.Conversion) error {
	return r.db.Create(conversion).Error
}

// CountConversionsByAffiliate counts conversions for an affiliate.
func (r *GormCommissionRepository) CountConversionsByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Conversion{}).Where("affiliate_id = ?", affiliateID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GetCommission fetches the commission for (affiliate, application).
func (r *GormCommissionRepository) GetCommission(affiliateID, applicationID uint) (*models.Commission, error) {
	if affiliateID == 0 || applicationID == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Where("affiliate_id = ? AND application_id = ?", affiliateID, applicationID).
		First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// CreateCommission inserts a commission row.
func (r *GormCommissionRepository) CreateCommission(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// UpdateCommission saves a commission row.
func (r *GormCommissionRepository) UpdateCommission(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// ListCommissions queries commissions.
func (r *GormCommissionRepository) ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).
		Preload("Affiliate").
		Preload("Application")
	if filter.AffiliateID != 0 {
		query = query.Where("commissions.affiliate_id = ?", filter.AffiliateID)
	}
	if filter.ApplicationID != 0 {
		query = query.Where("commissions.application_id = ?", filter.ApplicationID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("commissions.status = ?", status)
	}
	if filter.Level != nil {
		query = query.Where("commissions.level = ?", *filter.Level)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("commissions.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("commissions.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Commission
	if err := query.Order("commissions.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListCommissionsByApplication returns all commissions for an application.
func (r *GormCommissionRepository) ListCommissionsByApplication(applicationID uint) ([]models.Commission, error) {
	if applicationID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Where("application_id = ?", applicationID).
		Order("level asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumCommissionsByAffiliate sums commission amounts for the given statuses.
func (r *GormCommissionRepository) SumCommissionsByAffiliate(affiliateID uint, statuses []string) (decimal.Decimal, error) {
	if affiliateID == 0 {
		return decimal.Zero, nil
	}
	query := r.db.Model(&models.Commission{}).Where("affiliate_id = ?", affiliateID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// CountCommissionsByAffiliate counts commissions for the given statuses.
func (r *GormCommissionRepository) CountCommissionsByAffiliate(affiliateID uint, statuses []string) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Commission{}).Where("affiliate_id = ?", affiliateID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// MarkCommissionsPaid batch-updates pending commissions to paid.
func (r *GormCommissionRepository) MarkCommissionsPaid(ids []uint, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Commission{}).
		Where("id IN ? AND status = ?", ids, constants.CommissionStatusPending).
		Updates(map[string]interface{}{
			"status":     constants.CommissionStatusPaid,
			"updated_at": paidAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
