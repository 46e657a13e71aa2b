package admin

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/http/response"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

// ListCommissions returns a filtered commission page.
func (h *Handler) ListCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if affiliateID, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 64); err == nil && affiliateID > 0 {
		filter.AffiliateID = uint(affiliateID)
	}
	if applicationID, err := strconv.ParseUint(c.Query("application_id"), 10, 64); err == nil && applicationID > 0 {
		filter.ApplicationID = uint(applicationID)
	}
	if levelRaw := strings.TrimSpace(c.Query("level")); levelRaw != "" {
		if level, err := strconv.Atoi(levelRaw); err == nil && level >= 0 {
			filter.Level = &level
		}
	}

	rows, total, err := h.ReferralService.ListCommissions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "commission list failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// MarkCommissionsPaidRequest selects pending commissions to settle.
type MarkCommissionsPaidRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// MarkCommissionsPaid settles pending commissions.
func (h *Handler) MarkCommissionsPaid(c *gin.Context) {
	var req MarkCommissionsPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	moved, err := h.ReferralService.MarkCommissionsPaid(req.IDs)
	if err != nil {
		respondError(c, response.CodeInternal, "commission update failed", err)
		return
	}
	response.Success(c, gin.H{"paid": moved})
}
