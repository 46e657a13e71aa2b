package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/fundingdesk/fundingdesk/internal/models"
	"gorm.io/gorm"
)

// ApplicationRepository is the application data-access interface.
type ApplicationRepository interface {
	GetByID(id uint) (*models.Application, error)
	GetByReferenceID(referenceID string) (*models.Application, error)
	Create(application *models.Application) error
	BindAffiliate(applicationID, affiliateID uint, affiliateCode string, updatedAt time.Time) (int64, error)
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	CountByAffiliate(affiliateID uint, statuses []string) (int64, error)
	List(filter ApplicationListFilter) ([]models.Application, int64, error)
}

// GormApplicationRepository is the GORM-backed application repository.
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates an application repository.
func NewApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// GetByID fetches an application by id.
func (r *GormApplicationRepository) GetByID(id uint) (*models.Application, error) {
	if id == 0 {
		return nil, nil
	}
	var application models.Application
	if err := r.db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// GetByReferenceID fetches an application by its human-readable reference.
func (r *GormApplicationRepository) GetByReferenceID(referenceID string) (*models.Application, error) {
	normalized := strings.TrimSpace(referenceID)
	if normalized == "" {
		return nil, nil
	}
	var application models.Application
	if err := r.db.Where("reference_id = ?", normalized).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// Create inserts an application.
func (r *GormApplicationRepository) Create(application *models.Application) error {
	return r.db.Create(application).Error
}

// BindAffiliate sets the application's affiliate with a conditional update so
// first-writer-wins holds under concurrent binds. The update matches only
// when the application is unbound or already bound to the same affiliate;
// the returned row count is 0 when a different affiliate holds the bind.
func (r *GormApplicationRepository) BindAffiliate(applicationID, affiliateID uint, affiliateCode string, updatedAt time.Time) (int64, error) {
	if applicationID == 0 || affiliateID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND (affiliate_id IS NULL OR affiliate_id = ?)", applicationID, affiliateID).
		Updates(map[string]interface{}{
			"affiliate_id":   affiliateID,
			"affiliate_code": strings.TrimSpace(affiliateCode),
			"updated_at":     updatedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateStatus updates an application's status.
func (r *GormApplicationRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// CountByAffiliate counts an affiliate's applications, optionally by status.
func (r *GormApplicationRepository) CountByAffiliate(affiliateID uint, statuses []string) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Application{}).Where("affiliate_id = ?", affiliateID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List queries applications.
func (r *GormApplicationRepository) List(filter ApplicationListFilter) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if ref := strings.TrimSpace(filter.ReferenceID); ref != "" {
		query = query.Where("reference_id = ?", ref)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(applicant_name LIKE ? OR email LIKE ? OR business_name LIKE ?)", like, like, like)
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

	var rows []models.Application
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
