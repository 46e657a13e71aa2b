package service

import (
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

// NotificationService exposes an affiliate's in-app notification feed.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates the notification service.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListNotifications returns a page of an affiliate's notifications plus the
// unread count.
func (s *NotificationService) ListNotifications(filter repository.NotificationListFilter) ([]models.Notification, int64, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, 0, ErrNotFound
	}
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(filter.AffiliateID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// MarkNotificationsRead marks the given notifications read. Ids belonging to
// other affiliates are ignored.
func (s *NotificationService) MarkNotificationsRead(affiliateID uint, ids []uint) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrNotFound
	}
	if affiliateID == 0 || len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkRead(affiliateID, ids)
}
