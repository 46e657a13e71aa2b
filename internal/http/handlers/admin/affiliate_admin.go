package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/cache"
	"github.com/fundingdesk/fundingdesk/internal/http/response"
	"github.com/fundingdesk/fundingdesk/internal/repository"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

func affiliateStatsCacheKey(affiliateID uint) string {
	return fmt.Sprintf("stats:affiliate:%d", affiliateID)
}

// ListAffiliates returns a filtered affiliate page.
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.AffiliateService.ListAffiliates(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		TierName: strings.TrimSpace(c.Query("tier")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "affiliate list failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// GetAffiliate returns one affiliate with aggregate stats.
func (h *Handler) GetAffiliate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid affiliate id", nil)
		return
	}
	affiliate, err := h.AffiliateService.GetAffiliate(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "affiliate fetch failed", err)
		return
	}
	stats, err := h.ReferralService.GetAffiliateStats(affiliate.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "affiliate stats failed", err)
		return
	}
	response.Success(c, gin.H{
		"affiliate": affiliate,
		"stats":     stats,
	})
}

// UpdateAffiliateStatusRequest carries the new status.
type UpdateAffiliateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAffiliateStatus activates or deactivates an affiliate.
func (h *Handler) UpdateAffiliateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid affiliate id", nil)
		return
	}
	var req UpdateAffiliateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	affiliate, err := h.AffiliateService.UpdateAffiliateStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateStatusInvalid):
			respondError(c, response.CodeBadRequest, "unknown affiliate status", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
		default:
			respondError(c, response.CodeInternal, "affiliate update failed", err)
		}
		return
	}
	_ = cache.Del(c.Request.Context(), affiliateStatsCacheKey(affiliate.ID))
	response.Success(c, affiliate)
}

// DeleteAffiliate removes an affiliate without attributed applications.
func (h *Handler) DeleteAffiliate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid affiliate id", nil)
		return
	}
	if err := h.AffiliateService.DeleteAffiliate(uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateHasApplications):
			respondError(c, response.CodeConflict, "affiliate has attributed applications", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
		default:
			respondError(c, response.CodeInternal, "affiliate delete failed", err)
		}
		return
	}
	_ = cache.Del(c.Request.Context(), affiliateStatsCacheKey(uint(id)))
	response.Success(c, gin.H{"deleted": true})
}

// ListTiers returns the configured commission tiers.
func (h *Handler) ListTiers(c *gin.Context) {
	tiers, err := h.AffiliateService.ListTiers()
	if err != nil {
		respondError(c, response.CodeInternal, "tier list failed", err)
		return
	}
	response.Success(c, tiers)
}
