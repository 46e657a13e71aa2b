package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/http/response"
	"github.com/fundingdesk/fundingdesk/internal/repository"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

// ListApplications returns a filtered application page.
func (h *Handler) ListApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	affiliateID, _ := strconv.ParseUint(c.Query("affiliate_id"), 10, 64)
	rows, total, err := h.ApplicationService.ListApplications(repository.ApplicationListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: uint(affiliateID),
		Status:      strings.TrimSpace(c.Query("status")),
		ReferenceID: strings.TrimSpace(c.Query("reference_id")),
		Keyword:     strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "application list failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// UpdateApplicationStatusRequest carries the review decision.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus moves an application through review.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid application id", nil)
		return
	}
	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	application, err := h.ApplicationService.UpdateApplicationStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationStatusInvalid):
			respondError(c, response.CodeBadRequest, "unknown application status", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "application not found", nil)
		default:
			respondError(c, response.CodeInternal, "application update failed", err)
		}
		return
	}
	response.Success(c, application)
}

// ListApplicationCommissions returns every commission priced against one
// application, direct and upline.
func (h *Handler) ListApplicationCommissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid application id", nil)
		return
	}
	rows, err := h.ReferralService.ListCommissionsByApplication(uint(id))
	if err != nil {
		respondError(c, response.CodeInternal, "commission list failed", err)
		return
	}
	response.Success(c, rows)
}
