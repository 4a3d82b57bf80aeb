package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	catalog *domain.Catalog
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(catalog *domain.Catalog) *CatalogQueryService {
	return &CatalogQueryService{catalog: catalog}
}

// ListProducts 列出全部商品
func (s *CatalogQueryService) ListProducts(ctx context.Context) []domain.Product {
	return s.catalog.Products()
}

// ListAddOns 列出可选附加项
func (s *CatalogQueryService) ListAddOns(ctx context.Context) []domain.AddOn {
	return s.catalog.AddOns()
}

// GetProduct 根据ID获取商品信息
func (s *CatalogQueryService) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	return s.catalog.GetProduct(id)
}
