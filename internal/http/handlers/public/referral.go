package public

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/cache"
	"github.com/fundingdesk/fundingdesk/internal/http/response"
	"github.com/fundingdesk/fundingdesk/internal/repository"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

const affiliateStatsCacheTTL = 60 * time.Second

func affiliateStatsCacheKey(affiliateID uint) string {
	return fmt.Sprintf("stats:affiliate:%d", affiliateID)
}

var referralCodeErrorRules = []mappedHandlerError{
	{target: service.ErrCodeNotFound, code: response.CodeNotFound, msg: "referral code not found"},
	{target: service.ErrAffiliateInactive, code: response.CodeBadRequest, msg: "referral code is not active"},
}

// ValidateReferralCode checks a referral code and returns the affiliate's
// public name when it is usable.
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	affiliate, err := h.ReferralService.ValidateReferralCode(code)
	if err != nil {
		respondWithMappedError(c, err, referralCodeErrorRules, response.CodeInternal, "referral code lookup failed")
		return
	}
	response.Success(c, gin.H{
		"referral_code": affiliate.ReferralCode,
		"display_name":  affiliate.DisplayName,
	})
}

// TrackClickRequest is one referral-link visit report.
type TrackClickRequest struct {
	ReferralCode string `json:"referral_code" binding:"required"`
	LandingPage  string `json:"landing_page"`
}

// TrackReferralClick records a referral-link visit.
func (h *Handler) TrackReferralClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	err := h.ReferralService.RecordClick(service.RecordClickInput{
		ReferralCode:  req.ReferralCode,
		SourceAddress: c.ClientIP(),
		UserAgent:     c.GetHeader("User-Agent"),
		LandingPage:   req.LandingPage,
	})
	if err != nil {
		respondWithMappedError(c, err, referralCodeErrorRules, response.CodeInternal, "click tracking failed")
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// SubmitApplicationRequest is the public funding application form.
type SubmitApplicationRequest struct {
	ApplicantName string `json:"applicant_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	BusinessName  string `json:"business_name"`
	FundingAmount string `json:"funding_amount"`
	ReferralCode  string `json:"referral_code"`
}

// SubmitApplication accepts a funding application.
func (h *Handler) SubmitApplication(c *gin.Context) {
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	application, err := h.ApplicationService.SubmitApplication(service.SubmitApplicationInput{
		ApplicantName: req.ApplicantName,
		Email:         req.Email,
		BusinessName:  req.BusinessName,
		FundingAmount: req.FundingAmount,
		ReferralCode:  req.ReferralCode,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "application submit failed", err)
		return
	}
	response.Success(c, application)
}

// GetApplicationByReference returns an application's public view.
func (h *Handler) GetApplicationByReference(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference_id"))
	application, err := h.ApplicationService.GetApplicationByReference(reference)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "application not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "application lookup failed", err)
		return
	}
	response.Success(c, gin.H{
		"reference_id": application.ReferenceID,
		"status":       application.Status,
		"created_at":   application.CreatedAt,
	})
}

// GetAffiliateStats returns the aggregate dashboard for one affiliate code.
func (h *Handler) GetAffiliateStats(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	affiliate, err := h.ReferralService.ValidateReferralCode(code)
	if err != nil {
		respondWithMappedError(c, err, referralCodeErrorRules, response.CodeInternal, "referral code lookup failed")
		return
	}
	cacheKey := affiliateStatsCacheKey(affiliate.ID)
	var cached service.AffiliateStats
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, &cached)
		return
	}
	stats, err := h.ReferralService.GetAffiliateStats(affiliate.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "stats fetch failed", err)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), cacheKey, stats, affiliateStatsCacheTTL)
	response.Success(c, stats)
}

// ListAffiliateNotifications returns an affiliate's notification feed.
func (h *Handler) ListAffiliateNotifications(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	affiliate, err := h.ReferralService.ValidateReferralCode(code)
	if err != nil {
		respondWithMappedError(c, err, referralCodeErrorRules, response.CodeInternal, "referral code lookup failed")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	unreadOnly := c.Query("unread_only") == "true"

	items, total, unread, err := h.NotificationService.ListNotifications(repository.NotificationListFilter{
		AffiliateID: affiliate.ID,
		Page:        page,
		PageSize:    pageSize,
		UnreadOnly:  unreadOnly,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "notification fetch failed", err)
		return
	}
	c.Header("X-Unread-Count", strconv.FormatInt(unread, 10))
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// MarkNotificationsReadRequest selects notifications to mark read.
type MarkNotificationsReadRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// MarkAffiliateNotificationsRead marks notifications read for an affiliate.
func (h *Handler) MarkAffiliateNotificationsRead(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	affiliate, err := h.ReferralService.ValidateReferralCode(code)
	if err != nil {
		respondWithMappedError(c, err, referralCodeErrorRules, response.CodeInternal, "referral code lookup failed")
		return
	}
	var req MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	moved, err := h.NotificationService.MarkNotificationsRead(affiliate.ID, req.IDs)
	if err != nil {
		respondError(c, response.CodeInternal, "notification update failed", err)
		return
	}
	response.Success(c, gin.H{"marked": moved})
}
