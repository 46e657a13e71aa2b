package constants

// Affiliate status constants
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusInactive = "inactive"
	AffiliateStatusPending  = "pending"
)

// Application status constants
const (
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusDeclined    = "declined"
	ApplicationStatusFunded      = "funded"
)

// Commission status constants
const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
)

// Notification type constants
const (
	NotificationTypeNewApplication = "new_application"
	NotificationTypeMLMCommission  = "mlm_commission"
)

// Commission level constants. Level 0 is the directly attributed affiliate;
// MLM ancestors start at level 1.
const (
	CommissionLevelDirect = 0
)

// Queue name constants
const (
	QueueDefault = "default"
)

// Async task type constants
const (
	TaskApprovalCommission = "referral:approval_commission"
	TaskMLMFanout          = "referral:mlm_fanout"
)
