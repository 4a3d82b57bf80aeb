package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	"github.com/wyfcoding/storefront/internal/order/application"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CheckoutHandler 结账 HTTP 处理器
type CheckoutHandler struct {
	svc *application.CheckoutService
}

// NewCheckoutHandler 创建结账 HTTP 处理器
func NewCheckoutHandler(svc *application.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkout", h.Checkout)
}

// Checkout 结账并清空购物车；空购物车返回 400 EMPTY_CART
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	order, err := h.svc.Checkout(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		carthttp.RespondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"order_id":   order.ID,
		"item_count": order.ItemCount,
		"totals":     carthttp.ToTotalsDTO(order.Totals),
		"placed_at":  order.PlacedAt,
	})
}
