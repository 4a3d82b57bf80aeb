// Package static 从配置构建只读商品目录
package static

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Load 根据配置构建商品目录，未配置商品时使用内置菜单（连同内置附加项）；
// 配置了商品但没有 addons 时目录只有 "无附加项"
func Load(cfg config.CatalogConfig) (*domain.Catalog, error) {
	ctx := context.Background()
	if len(cfg.Products) == 0 {
		if len(cfg.AddOns) > 0 {
			logger.Warn(ctx, "catalog addons ignored without products, using built-in menu", "addons", len(cfg.AddOns))
		}
		return domain.DefaultCatalog(), nil
	}
	if len(cfg.AddOns) == 0 {
		logger.Warn(ctx, "catalog products configured without addons, only the none addon is available", "products", len(cfg.Products))
	}

	products := make([]domain.Product, 0, len(cfg.Products))
	for _, item := range cfg.Products {
		price, err := parsePrice(item)
		if err != nil {
			return nil, err
		}
		products = append(products, domain.Product{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: price,
			ImageRef:  item.Image,
		})
	}

	addOns := make([]domain.AddOn, 0, len(cfg.AddOns))
	for _, item := range cfg.AddOns {
		price, err := parsePrice(item)
		if err != nil {
			return nil, err
		}
		addOns = append(addOns, domain.AddOn{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: price,
			ImageRef:  item.Image,
		})
	}

	return domain.NewCatalog(products, addOns)
}

func parsePrice(item config.CatalogItemConfig) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("catalog item %d (%s): invalid price %q: %w", item.ID, item.Name, item.Price, err)
	}
	return price, nil
}
