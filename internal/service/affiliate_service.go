package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/fundingdesk/fundingdesk/internal/config"
	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

const (
	defaultCodeLength      = 8
	defaultCodeGenerateMax = 8
)

// AffiliateService manages affiliate accounts, tiers and the referral chain.
type AffiliateService struct {
	repo            repository.AffiliateRepository
	applicationRepo repository.ApplicationRepository
	cfg             config.ReferralConfig
}

// NewAffiliateService creates the affiliate management service.
func NewAffiliateService(repo repository.AffiliateRepository, applicationRepo repository.ApplicationRepository, cfg config.ReferralConfig) *AffiliateService {
	return &AffiliateService{repo: repo, applicationRepo: applicationRepo, cfg: cfg}
}

// EnrollAffiliateInput carries a new affiliate signup.
type EnrollAffiliateInput struct {
	DisplayName string
	Email       string
	TierName    string
	ParentCode  string
}

// EnrollAffiliate registers an affiliate, assigns a fresh referral code and
// wires the upward chain. When ParentCode is set, the new affiliate gets a
// level-1 edge to that parent plus the parent's own chain shifted one level
// down.
func (s *AffiliateService) EnrollAffiliate(input EnrollAffiliateInput) (*models.Affiliate, error) {
	if s == nil || s.repo == nil {
		return nil, ErrNotFound
	}
	displayName := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if displayName == "" || email == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAffiliateEmailTaken
	}

	var parent *models.Affiliate
	if code := strings.TrimSpace(input.ParentCode); code != "" {
		parent, err = s.repo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCodeNotFound
		}
		if parent.Status != constants.AffiliateStatusActive {
			return nil, ErrAffiliateInactive
		}
	}

	tierName := strings.TrimSpace(input.TierName)
	if tierName != "" {
		tier, err := s.repo.GetTierByName(tierName)
		if err != nil {
			return nil, err
		}
		if tier == nil {
			return nil, ErrNotFound
		}
		tierName = tier.Name
	}

	maxRetry := s.cfg.CodeGenerateMaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultCodeGenerateMax
	}
	codeLength := s.cfg.CodeLength
	if codeLength <= 0 {
		codeLength = defaultCodeLength
	}

	var affiliate *models.Affiliate
	for i := 0; i < maxRetry; i++ {
		code, genErr := generateReferralCode(codeLength)
		if genErr != nil {
			return nil, genErr
		}
		candidate := &models.Affiliate{
			DisplayName:  displayName,
			Email:        email,
			ReferralCode: code,
			TierName:     tierName,
			Status:       constants.AffiliateStatusActive,
		}
		if err := s.repo.Create(candidate); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		affiliate = candidate
		break
	}
	if affiliate == nil {
		return nil, ErrAffiliateCodeExhausted
	}

	if parent != nil {
		if err := s.buildReferralChain(affiliate.ID, parent.ID); err != nil {
			logger.Warnw("affiliate_chain_build_failed",
				"affiliate_id", affiliate.ID,
				"parent_affiliate_id", parent.ID,
				"error", err)
		}
	}
	return affiliate, nil
}

// buildReferralChain inserts the level-1 edge to the direct parent and
// copies the parent's upward edges shifted one level deeper.
func (s *AffiliateService) buildReferralChain(childID, parentID uint) error {
	if err := s.repo.CreateRelationship(&models.AffiliateRelationship{
		ParentAffiliateID: parentID,
		ChildAffiliateID:  childID,
		Level:             1,
	}); err != nil {
		return err
	}
	parentChain, err := s.repo.ListRelationshipsByChild(parentID)
	if err != nil {
		return err
	}
	for _, edge := range parentChain {
		if err := s.repo.CreateRelationship(&models.AffiliateRelationship{
			ParentAffiliateID: edge.ParentAffiliateID,
			ChildAffiliateID:  childID,
			Level:             edge.Level + 1,
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetAffiliate loads one affiliate by id.
func (s *AffiliateService) GetAffiliate(id uint) (*models.Affiliate, error) {
	if id == 0 || s.repo == nil {
		return nil, ErrNotFound
	}
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// ListAffiliates returns a filtered page for the back office.
func (s *AffiliateService) ListAffiliates(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrNotFound
	}
	return s.repo.List(filter)
}

// UpdateAffiliateStatus switches an affiliate between active, inactive and
// pending.
func (s *AffiliateService) UpdateAffiliateStatus(id uint, rawStatus string) (*models.Affiliate, error) {
	if id == 0 || s.repo == nil {
		return nil, ErrNotFound
	}
	status := strings.TrimSpace(strings.ToLower(rawStatus))
	switch status {
	case constants.AffiliateStatusActive, constants.AffiliateStatusInactive, constants.AffiliateStatusPending:
	default:
		return nil, ErrAffiliateStatusInvalid
	}
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	if affiliate.Status == status {
		return affiliate, nil
	}
	if err := s.repo.UpdateStatus(id, status, time.Now()); err != nil {
		return nil, err
	}
	affiliate.Status = status
	return affiliate, nil
}

// DeleteAffiliate removes an affiliate that has no attributed applications.
func (s *AffiliateService) DeleteAffiliate(id uint) error {
	if id == 0 || s.repo == nil {
		return ErrNotFound
	}
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return ErrNotFound
	}
	count, err := s.applicationRepo.CountByAffiliate(id, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAffiliateHasApplications
	}
	return s.repo.Delete(id)
}

// ListTiers returns all configured commission tiers.
func (s *AffiliateService) ListTiers() ([]models.AffiliateTier, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	return s.repo.ListTiers()
}

func generateReferralCode(length int) (string, error) {
	// Alphabet drops 0/O/1/I so codes survive being read aloud.
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var builder strings.Builder
	builder.Grow(length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
