package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/queue"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

// ApplicationService handles funding application intake and status review.
type ApplicationService struct {
	repo        repository.ApplicationRepository
	referral    *ReferralService
	queueClient *queue.Client
}

// NewApplicationService creates the application service.
func NewApplicationService(repo repository.ApplicationRepository, referral *ReferralService, queueClient *queue.Client) *ApplicationService {
	return &ApplicationService{repo: repo, referral: referral, queueClient: queueClient}
}

// SubmitApplicationInput carries one funding application form.
type SubmitApplicationInput struct {
	ApplicantName string
	Email         string
	BusinessName  string
	FundingAmount string
	ReferralCode  string
}

// SubmitApplication stores a new application and, when a referral code came
// along, attributes it. A bad code never fails the submission; the lead is
// kept and the attribution problem logged.
func (s *ApplicationService) SubmitApplication(input SubmitApplicationInput) (*models.Application, error) {
	if s == nil || s.repo == nil {
		return nil, ErrNotFound
	}
	applicantName := strings.TrimSpace(input.ApplicantName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if applicantName == "" || email == "" {
		return nil, ErrInvalidInput
	}

	application := &models.Application{
		ReferenceID:   newApplicationReferenceID(),
		ApplicantName: applicantName,
		Email:         email,
		BusinessName:  strings.TrimSpace(input.BusinessName),
		FundingAmount: strings.TrimSpace(input.FundingAmount),
		Status:        constants.ApplicationStatusSubmitted,
	}
	if err := s.repo.Create(application); err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.ReferralCode); code != "" && s.referral != nil {
		result, err := s.referral.AttributeApplication(application.ID, code)
		if err != nil {
			logger.Warnw("application_attribution_skipped",
				"application_id", application.ID,
				"reference_id", application.ReferenceID,
				"error", err)
		} else if result != nil && result.Application != nil {
			application = result.Application
		}
	}
	return application, nil
}

// GetApplicationByReference loads an application by its public reference.
func (s *ApplicationService) GetApplicationByReference(referenceID string) (*models.Application, error) {
	if s == nil || s.repo == nil {
		return nil, ErrNotFound
	}
	application, err := s.repo.GetByReferenceID(referenceID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}
	return application, nil
}

// ListApplications returns a filtered page for the back office.
func (s *ApplicationService) ListApplications(filter repository.ApplicationListFilter) ([]models.Application, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrNotFound
	}
	return s.repo.List(filter)
}

// UpdateApplicationStatus moves an application through review. Reaching
// approved re-prices the direct commission, via the queue when it is up and
// inline otherwise.
func (s *ApplicationService) UpdateApplicationStatus(id uint, rawStatus string) (*models.Application, error) {
	if id == 0 || s == nil || s.repo == nil {
		return nil, ErrNotFound
	}
	status := strings.TrimSpace(strings.ToLower(rawStatus))
	switch status {
	case constants.ApplicationStatusSubmitted,
		constants.ApplicationStatusUnderReview,
		constants.ApplicationStatusApproved,
		constants.ApplicationStatusDeclined,
		constants.ApplicationStatusFunded:
	default:
		return nil, ErrApplicationStatusInvalid
	}

	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrNotFound
	}
	if application.Status == status {
		return application, nil
	}
	if err := s.repo.UpdateStatus(id, status, time.Now()); err != nil {
		return nil, err
	}
	application.Status = status

	if status == constants.ApplicationStatusApproved && application.AffiliateID != nil {
		s.triggerApprovalCommission(application)
	}
	return application, nil
}

func (s *ApplicationService) triggerApprovalCommission(application *models.Application) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueApprovalCommission(queue.ApprovalCommissionPayload{
			ApplicationID: application.ID,
		})
		if err == nil {
			s.enqueueMLMReplay(application)
			return
		}
		logger.Warnw("approval_commission_enqueue_failed",
			"application_id", application.ID,
			"error", err)
	}
	if s.referral == nil {
		return
	}
	if err := s.referral.ProcessApprovalCommission(application.ID); err != nil {
		logger.Errorw("approval_commission_process_failed",
			"application_id", application.ID,
			"error", err)
	}
}

// enqueueMLMReplay re-runs the upline fan-out at approval time so any parent
// commission missed during attribution is backfilled. Creation is idempotent,
// so an already-complete chain is a no-op.
func (s *ApplicationService) enqueueMLMReplay(application *models.Application) {
	if application.AffiliateID == nil {
		return
	}
	err := s.queueClient.EnqueueMLMFanout(queue.MLMFanoutPayload{
		ApplicationID: application.ID,
		AffiliateID:   *application.AffiliateID,
	})
	if err != nil {
		logger.Warnw("mlm_fanout_enqueue_failed",
			"application_id", application.ID,
			"error", err)
	}
}

// newApplicationReferenceID mints the public application reference, e.g.
// FD-9f1c2a3b4d5e.
func newApplicationReferenceID() string {
	id := uuid.New().String()
	return "FD-" + strings.ReplaceAll(id, "-", "")[:12]
}
