package admin

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/fundingdesk/fundingdesk/internal/http/handlers/shared"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
