package service

import (
	"time"

	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

// ListCommissions returns a filtered commission page for the back office.
func (s *ReferralService) ListCommissions(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	if s == nil || s.commissionRepo == nil {
		return nil, 0, ErrNotFound
	}
	return s.commissionRepo.ListCommissions(filter)
}

// ListCommissionsByApplication returns every commission priced off one
// application, direct and upline.
func (s *ReferralService) ListCommissionsByApplication(applicationID uint) ([]models.Commission, error) {
	if applicationID == 0 || s == nil || s.commissionRepo == nil {
		return nil, ErrNotFound
	}
	return s.commissionRepo.ListCommissionsByApplication(applicationID)
}

// MarkCommissionsPaid settles pending commissions. Already-paid rows in the
// id set are left alone; the count of rows actually moved is returned.
func (s *ReferralService) MarkCommissionsPaid(ids []uint) (int64, error) {
	if s == nil || s.commissionRepo == nil {
		return 0, ErrNotFound
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.commissionRepo.MarkCommissionsPaid(ids, time.Now())
}
