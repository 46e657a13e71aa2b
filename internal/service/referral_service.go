package service

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundingdesk/fundingdesk/internal/config"
	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

// ReferralService implements attribution, click tracking and commission
// pricing for the referral program.
type ReferralService struct {
	affiliateRepo    repository.AffiliateRepository
	applicationRepo  repository.ApplicationRepository
	clickRepo        repository.ClickRepository
	commissionRepo   repository.CommissionRepository
	notificationRepo repository.NotificationRepository
	cfg              config.ReferralConfig
}

// NewReferralService creates the referral engine service.
func NewReferralService(
	affiliateRepo repository.AffiliateRepository,
	applicationRepo repository.ApplicationRepository,
	clickRepo repository.ClickRepository,
	commissionRepo repository.CommissionRepository,
	notificationRepo repository.NotificationRepository,
	cfg config.ReferralConfig,
) *ReferralService {
	return &ReferralService{
		affiliateRepo:    affiliateRepo,
		applicationRepo:  applicationRepo,
		clickRepo:        clickRepo,
		commissionRepo:   commissionRepo,
		notificationRepo: notificationRepo,
		cfg:              cfg,
	}
}

// RecordClickInput carries one referral-link visit.
type RecordClickInput struct {
	ReferralCode  string
	SourceAddress string
	UserAgent     string
	LandingPage   string
}

// AttributionResult reports what AttributeApplication did for an application.
type AttributionResult struct {
	Application *models.Application `json:"application"`
	Affiliate   *models.Affiliate   `json:"affiliate"`
	Commission  *models.Commission  `json:"commission,omitempty"`
	AlreadyDone bool                `json:"already_done"`
}

// AffiliateStats is the aggregate view returned to an affiliate or the
// back office.
type AffiliateStats struct {
	AffiliateID       uint         `json:"affiliate_id"`
	ReferralCode      string       `json:"referral_code"`
	ClickCount        int64        `json:"click_count"`
	ConversionCount   int64        `json:"conversion_count"`
	ApplicationCount  int64        `json:"application_count"`
	ApprovedCount     int64        `json:"approved_count"`
	PendingCount      int64        `json:"pending_count"`
	CommissionCount   int64        `json:"commission_count"`
	ConversionRate    float64      `json:"conversion_rate"`
	PendingCommission models.Money `json:"pending_commission"`
	PaidCommission    models.Money `json:"paid_commission"`
}

// ValidateReferralCode resolves a referral code to its active affiliate.
// Codes are matched after whitespace trimming only; case is significant.
func (s *ReferralService) ValidateReferralCode(code string) (*models.Affiliate, error) {
	if s == nil || s.affiliateRepo == nil {
		return nil, ErrNotFound
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeNotFound
	}
	affiliate, err := s.affiliateRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrCodeNotFound
	}
	if affiliate.Status != constants.AffiliateStatusActive {
		return nil, ErrAffiliateInactive
	}
	return affiliate, nil
}

// RecordClick logs one referral-link visit. Repeated clicks from the same
// source address beyond the spam threshold inside the window are accepted
// and dropped without a row, so callers cannot probe the limit.
func (s *ReferralService) RecordClick(input RecordClickInput) error {
	affiliate, err := s.ValidateReferralCode(input.ReferralCode)
	if err != nil {
		return err
	}

	source := strings.TrimSpace(input.SourceAddress)
	threshold := s.cfg.ClickSpamThreshold
	window := time.Duration(s.cfg.ClickSpamWindowMin) * time.Minute
	if threshold > 0 && window > 0 && source != "" {
		since := time.Now().Add(-window)
		count, err := s.clickRepo.CountRecentBySource(affiliate.ID, source, since)
		if err != nil {
			return err
		}
		if count >= int64(threshold) {
			logger.Warnw("referral_click_suppressed",
				"affiliate_id", affiliate.ID,
				"source_address", source,
				"recent_count", count)
			return nil
		}
	}

	click := &models.Click{
		AffiliateID:   affiliate.ID,
		SourceAddress: source,
		UserAgent:     strings.TrimSpace(input.UserAgent),
		LandingPage:   strings.TrimSpace(input.LandingPage),
		CreatedAt:     time.Now(),
	}
	return s.clickRepo.Create(click)
}

// AttributeApplication binds an application to the affiliate behind the code
// and generates the submission-time commission, conversion record and
// notification. The bind is first-writer-wins; re-running for the same
// affiliate is an idempotent success, a different affiliate gets
// ErrAttributionConflict. Only the bind is fatal: the downstream records are
// created check-then-insert so retries never duplicate them, and a failure
// in any of them is logged without failing the call. The code must be
// non-empty; callers that treat a missing code as a no-op skip the call
// themselves, as ApplicationService.SubmitApplication does.
func (s *ReferralService) AttributeApplication(applicationID uint, code string) (*AttributionResult, error) {
	if applicationID == 0 {
		return nil, ErrNotFound
	}
	affiliate, err := s.ValidateReferralCode(code)
	if err != nil {
		return nil, err
	}
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}

	alreadyBound := application.AffiliateID != nil && *application.AffiliateID == affiliate.ID

	rows, err := s.applicationRepo.BindAffiliate(application.ID, affiliate.ID, affiliate.ReferralCode, time.Now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The conditional update matches unbound rows and rows already
		// bound to this affiliate. Zero rows means someone else won.
		current, err := s.applicationRepo.GetByID(application.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrNotFound
		}
		if current.AffiliateID == nil || *current.AffiliateID != affiliate.ID {
			return nil, ErrAttributionConflict
		}
		alreadyBound = true
	}
	application.AffiliateID = &affiliate.ID
	application.AffiliateCode = affiliate.ReferralCode

	if err := s.ensureConversion(affiliate.ID, application.ID); err != nil {
		logger.Warnw("referral_conversion_create_failed",
			"affiliate_id", affiliate.ID,
			"application_id", application.ID,
			"error", err)
	}

	commission, err := s.ensureDirectCommission(affiliate, application)
	if err != nil {
		logger.Warnw("referral_commission_create_failed",
			"affiliate_id", affiliate.ID,
			"application_id", application.ID,
			"error", err)
		commission = nil
	}

	if err := s.ensureNotification(affiliate.ID, application, constants.NotificationTypeNewApplication, commission); err != nil {
		logger.Warnw("referral_notification_create_failed",
			"affiliate_id", affiliate.ID,
			"application_id", application.ID,
			"error", err)
	}

	s.fanOutMLMCommissions(affiliate, application)

	return &AttributionResult{
		Application: application,
		Affiliate:   affiliate,
		Commission:  commission,
		AlreadyDone: alreadyBound,
	}, nil
}

// ProcessApprovalCommission re-prices the direct commission when an
// application reaches approved status. The existing commission row is
// updated in place and returned to pending; a missing row is created.
func (s *ReferralService) ProcessApprovalCommission(applicationID uint) error {
	if applicationID == 0 {
		return ErrNotFound
	}
	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return err
	}
	if application == nil {
		return ErrNotFound
	}
	if application.AffiliateID == nil {
		return nil
	}
	affiliate, err := s.affiliateRepo.GetByID(*application.AffiliateID)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return nil
	}

	base := ExtractBaseAmount(application.FundingAmount, s.defaultBaseAmount())
	rate := s.resolveTierRate(affiliate, s.cfg.ApprovalFallbackRate)
	amount := CalculateCommission(base, rate)

	existing, err := s.commissionRepo.GetCommission(affiliate.ID, application.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.BaseAmount = models.NewMoneyFromDecimal(base)
		existing.Rate = models.NewMoneyFromDecimal(rate)
		existing.Amount = models.NewMoneyFromDecimal(amount)
		existing.Status = constants.CommissionStatusPending
		existing.UpdatedAt = time.Now()
		return s.commissionRepo.UpdateCommission(existing)
	}
	commission := &models.Commission{
		AffiliateID:   affiliate.ID,
		ApplicationID: application.ID,
		BaseAmount:    models.NewMoneyFromDecimal(base),
		Rate:          models.NewMoneyFromDecimal(rate),
		Amount:        models.NewMoneyFromDecimal(amount),
		Level:         constants.CommissionLevelDirect,
		Status:        constants.CommissionStatusPending,
	}
	return s.commissionRepo.CreateCommission(commission)
}

// GetAffiliateStats aggregates click, conversion and commission figures for
// one affiliate.
func (s *ReferralService) GetAffiliateStats(affiliateID uint) (*AffiliateStats, error) {
	if affiliateID == 0 {
		return nil, ErrNotFound
	}
	affiliate, err := s.affiliateRepo.GetByID(affiliateID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	clicks, err := s.clickRepo.CountByAffiliate(affiliateID)
	if err != nil {
		return nil, err
	}
	conversions, err := s.commissionRepo.CountConversionsByAffiliate(affiliateID)
	if err != nil {
		return nil, err
	}
	applications, err := s.applicationRepo.CountByAffiliate(affiliateID, nil)
	if err != nil {
		return nil, err
	}
	approved, err := s.applicationRepo.CountByAffiliate(affiliateID, []string{
		constants.ApplicationStatusApproved,
		constants.ApplicationStatusFunded,
	})
	if err != nil {
		return nil, err
	}
	pendingApps, err := s.applicationRepo.CountByAffiliate(affiliateID, []string{
		constants.ApplicationStatusSubmitted,
		constants.ApplicationStatusUnderReview,
	})
	if err != nil {
		return nil, err
	}
	commissionCount, err := s.commissionRepo.CountCommissionsByAffiliate(affiliateID, nil)
	if err != nil {
		return nil, err
	}
	pending, err := s.commissionRepo.SumCommissionsByAffiliate(affiliateID, []string{constants.CommissionStatusPending})
	if err != nil {
		return nil, err
	}
	paid, err := s.commissionRepo.SumCommissionsByAffiliate(affiliateID, []string{constants.CommissionStatusPaid})
	if err != nil {
		return nil, err
	}

	stats := &AffiliateStats{
		AffiliateID:       affiliate.ID,
		ReferralCode:      affiliate.ReferralCode,
		ClickCount:        clicks,
		ConversionCount:   conversions,
		ApplicationCount:  applications,
		ApprovedCount:     approved,
		PendingCount:      pendingApps,
		CommissionCount:   commissionCount,
		PendingCommission: models.NewMoneyFromDecimal(pending),
		PaidCommission:    models.NewMoneyFromDecimal(paid),
	}
	stats.ConversionRate = calcConversionRate(applications, clicks)
	return stats, nil
}

// calcConversionRate is applications per hundred clicks, rounded to 2 places.
func calcConversionRate(applications, clicks int64) float64 {
	if clicks <= 0 || applications <= 0 {
		return 0
	}
	value := (float64(applications) / float64(clicks)) * 100
	return math.Round(value*100) / 100
}

func (s *ReferralService) ensureConversion(affiliateID, applicationID uint) error {
	existing, err := s.commissionRepo.GetConversion(affiliateID, applicationID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.commissionRepo.CreateConversion(&models.Conversion{
		AffiliateID:   affiliateID,
		ApplicationID: applicationID,
	})
}

func (s *ReferralService) ensureDirectCommission(affiliate *models.Affiliate, application *models.Application) (*models.Commission, error) {
	existing, err := s.commissionRepo.GetCommission(affiliate.ID, application.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	base := ExtractBaseAmount(application.FundingAmount, s.defaultBaseAmount())
	rate := s.resolveTierRate(affiliate, s.cfg.DirectFallbackRate)
	amount := CalculateCommission(base, rate)

	commission := &models.Commission{
		AffiliateID:   affiliate.ID,
		ApplicationID: application.ID,
		BaseAmount:    models.NewMoneyFromDecimal(base),
		Rate:          models.NewMoneyFromDecimal(rate),
		Amount:        models.NewMoneyFromDecimal(amount),
		Level:         constants.CommissionLevelDirect,
		Status:        constants.CommissionStatusPending,
	}
	if err := s.commissionRepo.CreateCommission(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

func (s *ReferralService) ensureNotification(affiliateID uint, application *models.Application, notificationType string, commission *models.Commission) error {
	existing, err := s.notificationRepo.Get(affiliateID, application.ID, notificationType)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	payload := models.JSON{
		"reference_id":   application.ReferenceID,
		"applicant_name": application.ApplicantName,
		"funding_amount": application.FundingAmount,
	}
	if commission != nil {
		payload["commission_amount"] = commission.Amount.String()
		if notificationType == constants.NotificationTypeMLMCommission {
			payload["level"] = commission.Level
			payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		}
	}
	return s.notificationRepo.Create(&models.Notification{
		AffiliateID:   affiliateID,
		ApplicationID: application.ID,
		Type:          notificationType,
		Payload:       payload,
	})
}

// resolveTierRate returns the affiliate's tier percentage, or fallback when
// the tier is unset or missing.
func (s *ReferralService) resolveTierRate(affiliate *models.Affiliate, fallback float64) decimal.Decimal {
	tierName := strings.TrimSpace(affiliate.TierName)
	if tierName != "" {
		tier, err := s.affiliateRepo.GetTierByName(tierName)
		if err != nil {
			logger.Warnw("referral_tier_lookup_failed",
				"affiliate_id", affiliate.ID,
				"tier_name", tierName,
				"error", err)
		} else if tier != nil {
			return tier.CommissionRate.Decimal.Round(2)
		}
	}
	return decimal.NewFromFloat(fallback).Round(2)
}

func (s *ReferralService) defaultBaseAmount() decimal.Decimal {
	if s.cfg.DefaultBaseAmount > 0 {
		return decimal.NewFromFloat(s.cfg.DefaultBaseAmount).Round(2)
	}
	return decimal.NewFromInt(1000)
}
