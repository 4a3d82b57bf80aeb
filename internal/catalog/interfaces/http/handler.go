package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartSummaryReader 商品页展示购物车角标所需的查询
type CartSummaryReader interface {
	GetCartSummary(ctx context.Context, sessionID string) (*cartapp.CartSummary, error)
}

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	query *application.CatalogQueryService
	carts CartSummaryReader
}

// NewCatalogHandler 创建商品目录 HTTP 处理器
func NewCatalogHandler(query *application.CatalogQueryService, carts CartSummaryReader) *CatalogHandler {
	return &CatalogHandler{query: query, carts: carts}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/products")
	{
		api.GET("", h.ListProducts)
		api.GET("/:id", h.GetProduct)
	}
}

// ProductDTO 商品或附加项
type ProductDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Image     string `json:"image"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, UnitPrice: pricing.FormatMoney(p.UnitPrice), Image: p.ImageRef}
}

func toAddOnDTO(a domain.AddOn) ProductDTO {
	return ProductDTO{ID: a.ID, Name: a.Name, UnitPrice: pricing.FormatMoney(a.UnitPrice), Image: a.ImageRef}
}

// ListProducts 商品列表页：商品、附加项与当前购物车摘要
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products := h.query.ListProducts(ctx)
	productDTOs := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		productDTOs = append(productDTOs, toProductDTO(p))
	}

	addOns := h.query.ListAddOns(ctx)
	addOnDTOs := make([]ProductDTO, 0, len(addOns))
	for _, a := range addOns {
		addOnDTOs = append(addOnDTOs, toAddOnDTO(a))
	}

	body := gin.H{
		"products":      productDTOs,
		"addons":        addOnDTOs,
		"cart_count":    0,
		"cart_subtotal": pricing.FormatMoney(decimal.Zero),
	}
	if h.carts != nil {
		summary, err := h.carts.GetCartSummary(ctx, middleware.SessionID(c))
		if err != nil {
			carthttp.RespondError(c, err)
			return
		}
		body["cart_count"] = summary.Count
		body["cart_subtotal"] = pricing.FormatMoney(summary.Subtotal)
	}
	response.Success(c, http.StatusOK, body)
}

// GetProduct 商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		carthttp.RespondInvalidInput(c, "invalid product id")
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
			return
		}
		carthttp.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": toProductDTO(product)})
}
