package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"

	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/provider"
	"github.com/fundingdesk/fundingdesk/internal/queue"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

// Consumer handles queued referral tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register attaches task handlers to the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskApprovalCommission, c.handleApprovalCommission)
	mux.HandleFunc(queue.TaskMLMFanout, c.handleMLMFanout)
}

func (c *Consumer) handleApprovalCommission(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_approval_commission_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ApprovalCommissionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_approval_commission_unmarshal_failed", "error", err)
		return err
	}
	if payload.ApplicationID == 0 {
		logger.Debugw("worker_approval_commission_skip_invalid_payload", "application_id", payload.ApplicationID)
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_approval_commission_skip_referral_service_nil", "application_id", payload.ApplicationID)
		return nil
	}
	if err := c.ReferralService.ProcessApprovalCommission(payload.ApplicationID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_approval_commission_skip_application_not_found", "application_id", payload.ApplicationID)
			return nil
		default:
			logger.Warnw("worker_approval_commission_failed", "application_id", payload.ApplicationID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleMLMFanout(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_mlm_fanout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MLMFanoutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_mlm_fanout_unmarshal_failed", "error", err)
		return err
	}
	if payload.ApplicationID == 0 || payload.AffiliateID == 0 {
		logger.Debugw("worker_mlm_fanout_skip_invalid_payload",
			"application_id", payload.ApplicationID,
			"affiliate_id", payload.AffiliateID)
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_mlm_fanout_skip_referral_service_nil", "application_id", payload.ApplicationID)
		return nil
	}
	if err := c.ReferralService.RetryMLMFanout(payload.ApplicationID, payload.AffiliateID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_mlm_fanout_skip_not_found",
				"application_id", payload.ApplicationID,
				"affiliate_id", payload.AffiliateID)
			return nil
		default:
			logger.Warnw("worker_mlm_fanout_failed",
				"application_id", payload.ApplicationID,
				"affiliate_id", payload.AffiliateID,
				"error", err)
			return err
		}
	}
	return nil
}
