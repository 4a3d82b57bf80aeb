package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	app *application.CartApplicationService
}

// NewCartHandler 创建购物车 HTTP 处理器
func NewCartHandler(app *application.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由，router 需已挂载会话中间件
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/cart")
	{
		api.GET("", h.GetCart)
		api.DELETE("", h.ClearCart)
		api.POST("/items", h.AddItem)
		api.PATCH("/items/:key", h.UpdateQuantity)
		api.DELETE("/items/:key", h.RemoveItem)
		api.DELETE("/products/:productId", h.RemoveProduct)
	}
}

// GetCart 购物车页面数据
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.app.GetCartView(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	totals := ToTotalsDTO(view.Totals)
	response.Success(c, http.StatusOK, gin.H{
		"items":       toLineItemDTOs(view),
		"count":       view.Count,
		"subtotal":    totals.Subtotal,
		"tax":         totals.Tax,
		"shipping":    totals.Shipping,
		"grand_total": totals.GrandTotal,
	})
}

// AddItem 加入购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondInvalidInput(c, "malformed request body")
		return
	}

	res, err := h.app.AddItem(c.Request.Context(), application.AddItemCommand{
		SessionID:     middleware.SessionID(c),
		ProductID:     req.ProductID,
		AddOnID:       req.AddOnID,
		Quantity:      req.Quantity,
		AddOnQuantity: req.AddOnQuantity,
		Key:           req.Key,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"cart_count": res.CartCount,
		"item_key":   res.Item.Key,
		"item":       toLineItemDTO(res.Item),
	})
}

// UpdateQuantity 修改行数量
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		RespondInvalidInput(c, "quantity is required")
		return
	}

	key := c.Param("key")
	res, err := h.app.UpdateQuantity(c.Request.Context(), application.UpdateQuantityCommand{
		SessionID:     middleware.SessionID(c),
		Key:           key,
		Quantity:      *req.Quantity,
		AddOnQuantity: req.AddOnQuantity,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	body := gin.H{
		"cart_count":   res.CartCount,
		"item_key":     key,
		"previous_key": res.PreviousKey,
		"removed":      res.Removed,
	}
	if !res.Removed {
		body["item_key"] = res.Item.Key
		body["item"] = toLineItemDTO(res.Item)
	}
	response.Success(c, http.StatusOK, body)
}

// RemoveItem 移除一行，重复删除同样返回成功
func (h *CartHandler) RemoveItem(c *gin.Context) {
	res, err := h.app.RemoveItem(c.Request.Context(), middleware.SessionID(c), c.Param("key"))
	if err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"removed":    res.Removed,
		"cart_count": res.CartCount,
	})
}

// RemoveProduct 移除某商品的全部行
func (h *CartHandler) RemoveProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID < 1 {
		RespondInvalidInput(c, "invalid product id")
		return
	}

	res, err := h.app.RemoveProduct(c.Request.Context(), middleware.SessionID(c), productID)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"removed_count": res.RemovedLines,
		"cart_count":    res.CartCount,
	})
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.app.ClearCart(c.Request.Context(), middleware.SessionID(c)); err != nil {
		RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}
