package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// StatusFor 领域错误分类对应的 HTTP 状态码
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindPrecondition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError 领域错误按分类返回 4xx，其余错误记录日志并返回 500
func RespondError(c *gin.Context, err error) {
	var cartErr *domain.CartError
	if errors.As(err, &cartErr) {
		response.Error(c, StatusFor(cartErr.Kind()), string(cartErr.Code), cartErr.Message)
		return
	}

	logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

// RespondInvalidInput 请求体或路径参数无法解析
func RespondInvalidInput(c *gin.Context, message string) {
	response.Error(c, http.StatusBadRequest, string(domain.CodeInvalidInput), message)
}
