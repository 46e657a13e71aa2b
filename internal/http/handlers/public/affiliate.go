package public

import (
	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/http/response"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

// EnrollAffiliateRequest is the public partner signup form.
type EnrollAffiliateRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	TierName    string `json:"tier_name"`
	ParentCode  string `json:"parent_code"`
}

var enrollErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "display name and email are required"},
	{target: service.ErrAffiliateEmailTaken, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrCodeNotFound, code: response.CodeNotFound, msg: "parent referral code not found"},
	{target: service.ErrAffiliateInactive, code: response.CodeBadRequest, msg: "parent referral code is not active"},
	{target: service.ErrNotFound, code: response.CodeBadRequest, msg: "unknown commission tier"},
}

// EnrollAffiliate registers a new referral partner.
func (h *Handler) EnrollAffiliate(c *gin.Context) {
	var req EnrollAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	affiliate, err := h.AffiliateService.EnrollAffiliate(service.EnrollAffiliateInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		TierName:    req.TierName,
		ParentCode:  req.ParentCode,
	})
	if err != nil {
		respondWithMappedError(c, err, enrollErrorRules, response.CodeInternal, "enrollment failed")
		return
	}
	response.Success(c, affiliate)
}
