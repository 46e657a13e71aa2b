package service

import (
	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
)

// RetryMLMFanout reloads an attributed application and replays the upline
// fan-out. Used by the queue consumer; creation is idempotent so replays
// never double-pay.
func (s *ReferralService) RetryMLMFanout(applicationID, affiliateID uint) error {
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return err
	}
	if application == nil {
		return ErrNotFound
	}
	affiliate, err := s.affiliateRepo.GetByID(affiliateID)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return ErrNotFound
	}
	s.fanOutMLMCommissions(affiliate, application)
	return nil
}

// fanOutMLMCommissions pays the submitting affiliate's upline. The walk is
// bounded by whichever is shorter, the stored chain or the configured level
// settings. Failures for one parent are logged and do not stop the rest,
// and they never fail the attribution that triggered the fan-out.
func (s *ReferralService) fanOutMLMCommissions(affiliate *models.Affiliate, application *models.Application) {
	relationships, err := s.affiliateRepo.ListRelationshipsByChild(affiliate.ID)
	if err != nil {
		logger.Warnw("mlm_chain_load_failed",
			"affiliate_id", affiliate.ID,
			"application_id", application.ID,
			"error", err)
		return
	}
	if len(relationships) == 0 {
		return
	}
	settings, err := s.affiliateRepo.ListLevelSettings()
	if err != nil {
		logger.Warnw("mlm_level_settings_load_failed",
			"affiliate_id", affiliate.ID,
			"application_id", application.ID,
			"error", err)
		return
	}
	if len(settings) == 0 {
		return
	}

	depth := len(relationships)
	if len(settings) < depth {
		depth = len(settings)
	}
	for i := 0; i < depth; i++ {
		rel := relationships[i]
		setting := settings[i]
		if err := s.payMLMLevel(rel, setting, application); err != nil {
			logger.Warnw("mlm_commission_failed",
				"parent_affiliate_id", rel.ParentAffiliateID,
				"application_id", application.ID,
				"level", rel.Level,
				"error", err)
		}
	}
}

// payMLMLevel prices and records one upline commission. Inactive or missing
// parents are skipped without error so deeper levels still get paid.
func (s *ReferralService) payMLMLevel(rel models.AffiliateRelationship, setting models.MLMLevelSetting, application *models.Application) error {
	parent, err := s.affiliateRepo.GetByID(rel.ParentAffiliateID)
	if err != nil {
		return err
	}
	if parent == nil || parent.Status != constants.AffiliateStatusActive {
		return nil
	}

	existing, err := s.commissionRepo.GetCommission(parent.ID, application.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	base := ExtractBaseAmount(application.FundingAmount, s.defaultBaseAmount())
	rate := setting.CommissionRate.Decimal.Round(2)
	amount := CalculateCommission(base, rate)

	commission := &models.Commission{
		AffiliateID:   parent.ID,
		ApplicationID: application.ID,
		BaseAmount:    models.NewMoneyFromDecimal(base),
		Rate:          models.NewMoneyFromDecimal(rate),
		Amount:        models.NewMoneyFromDecimal(amount),
		Level:         rel.Level,
		Status:        constants.CommissionStatusPending,
	}
	if err := s.commissionRepo.CreateCommission(commission); err != nil {
		return err
	}

	if err := s.ensureNotification(parent.ID, application, constants.NotificationTypeMLMCommission, commission); err != nil {
		logger.Warnw("mlm_notification_create_failed",
			"parent_affiliate_id", parent.ID,
			"application_id", application.ID,
			"error", err)
	}
	return nil
}
