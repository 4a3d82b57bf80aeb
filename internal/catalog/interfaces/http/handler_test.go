package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

type fakeSummary struct {
	summary cartapp.CartSummary
	err     error
}

func (f fakeSummary) GetCartSummary(context.Context, string) (*cartapp.CartSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.summary, nil
}

func serve(t *testing.T, carts CartSummaryReader, path string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewCatalogHandler(application.NewCatalogQueryService(domain.DefaultCatalog()), carts).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestListProducts(t *testing.T) {
	code, body := serve(t, fakeSummary{summary: cartapp.CartSummary{Count: 3, Subtotal: decimal.RequireFromString("62.5")}}, "/api/products")
	require.Equal(t, http.StatusOK, code)

	products := body["products"].([]any)
	require.Len(t, products, 4)
	first := products[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Milanesa Napolitana", first["name"])
	assert.Equal(t, "25.00", first["unit_price"])

	addOns := body["addons"].([]any)
	assert.Len(t, addOns, 5, "the no-addon choice is not listed")

	assert.Equal(t, float64(3), body["cart_count"])
	assert.Equal(t, "62.50", body["cart_subtotal"])
}

func TestListProductsWithoutCarts(t *testing.T) {
	code, body := serve(t, nil, "/api/products")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["cart_count"])
	assert.Equal(t, "0.00", body["cart_subtotal"])
}

func TestListProductsStoreFailure(t *testing.T) {
	code, body := serve(t, fakeSummary{err: errors.New("redis down")}, "/api/products")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
}

func TestGetProduct(t *testing.T) {
	code, body := serve(t, nil, "/api/products/2")
	require.Equal(t, http.StatusOK, code)
	product := body["product"].(map[string]any)
	assert.Equal(t, "Milanesa de Pollo", product["name"])
	assert.Equal(t, "18.50", product["unit_price"])

	code, body = serve(t, nil, "/api/products/99")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body["code"])

	code, body = serve(t, nil, "/api/products/abc")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}
