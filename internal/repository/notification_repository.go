package repository

import (
	"errors"
	"strings"

	"github.com/fundingdesk/fundingdesk/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the notification data-access interface.
type NotificationRepository interface {
	Get(affiliateID, applicationID uint, notificationType string) (*models.Notification, error)
	Create(notification *models.Notification) error
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(affiliateID uint, ids []uint) (int64, error)
	CountUnread(affiliateID uint) (int64, error)
}

// GormNotificationRepository is the GORM-backed notification repository.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Get fetches the notification for (affiliate, application, type).
func (r *GormNotificationRepository) Get(affiliateID, applicationID uint, notificationType string) (*models.Notification, error) {
	if affiliateID == 0 || applicationID == 0 {
		return nil, nil
	}
	var notification models.Notification
	if err := r.db.Where("affiliate_id = ? AND application_id = ? AND type = ?",
		affiliateID,
		applicationID,
		strings.TrimSpace(notificationType),
	).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// Create inserts a notification row.
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// List queries notifications.
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if notificationType := strings.TrimSpace(filter.Type); notificationType != "" {
		query = query.Where("type = ?", notificationType)
	}
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Notification
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkRead marks an affiliate's notifications as read.
func (r *GormNotificationRepository) MarkRead(affiliateID uint, ids []uint) (int64, error) {
	if affiliateID == 0 || len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("affiliate_id = ? AND id IN ? AND read = ?", affiliateID, ids, false).
		Updates(map[string]interface{}{
			"read": true,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread counts an affiliate's unread notifications.
func (r *GormNotificationRepository) CountUnread(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Notification{}).
		Where("affiliate_id = ? AND read = ?", affiliateID, false).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
