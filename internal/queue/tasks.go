package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/fundingdesk/fundingdesk/internal/constants"
)

const (
	// TaskApprovalCommission re-prices the direct commission after approval.
	TaskApprovalCommission = constants.TaskApprovalCommission
	// TaskMLMFanout retries upline commission fan-out for an application.
	TaskMLMFanout = constants.TaskMLMFanout
)

// ApprovalCommissionPayload identifies the approved application to re-price.
type ApprovalCommissionPayload struct {
	ApplicationID uint `json:"application_id"`
}

// MLMFanoutPayload identifies the attributed application whose upline
// commissions should be recomputed.
type MLMFanoutPayload struct {
	ApplicationID uint `json:"application_id"`
	AffiliateID   uint `json:"affiliate_id"`
}

// NewApprovalCommissionTask builds the approval re-pricing task.
func NewApprovalCommissionTask(payload ApprovalCommissionPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskApprovalCommission, body), nil
}

// NewMLMFanoutTask builds the upline fan-out task.
func NewMLMFanoutTask(payload MLMFanoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMLMFanout, body), nil
}
