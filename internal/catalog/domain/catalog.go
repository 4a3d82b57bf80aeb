package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("product not found")

// Catalog 只读商品目录，构建后可在所有会话间无锁共享
type Catalog struct {
	products map[int]Product
	addOns   map[int]AddOn
	// 按 ID 排序的展示顺序
	productIDs []int
	addOnIDs   []int
}

// NewCatalog 校验并构建商品目录，ID 0 始终保留给"不加附加项"
func NewCatalog(products []Product, addOns []AddOn) (*Catalog, error) {
	c := &Catalog{
		products: make(map[int]Product, len(products)),
		addOns:   make(map[int]AddOn, len(addOns)+1),
	}

	for _, p := range products {
		if p.ID < 1 {
			return nil, fmt.Errorf("product %q: id must be >= 1, got %d", p.Name, p.ID)
		}
		if p.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("product %d: negative unit price %s", p.ID, p.UnitPrice)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.products[p.ID] = p
		c.productIDs = append(c.productIDs, p.ID)
	}

	c.addOns[NoAddOnID] = NoAddOn()
	for _, a := range addOns {
		if a.ID < 1 {
			return nil, fmt.Errorf("addon %q: id must be >= 1, got %d", a.Name, a.ID)
		}
		if a.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("addon %d: negative unit price %s", a.ID, a.UnitPrice)
		}
		if _, dup := c.addOns[a.ID]; dup {
			return nil, fmt.Errorf("duplicate addon id %d", a.ID)
		}
		c.addOns[a.ID] = a
		c.addOnIDs = append(c.addOnIDs, a.ID)
	}

	sort.Ints(c.productIDs)
	sort.Ints(c.addOnIDs)
	return c, nil
}

// GetProduct 根据 ID 获取商品
func (c *Catalog) GetProduct(id int) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// GetAddOn 宽松查询：ID 为 0 或未知时返回"不加附加项"，仅用于展示
func (c *Catalog) GetAddOn(id int) AddOn {
	if a, ok := c.addOns[id]; ok {
		return a
	}
	return NoAddOn()
}

// LookupAddOn 严格查询，涉及计价时使用
func (c *Catalog) LookupAddOn(id int) (AddOn, bool) {
	a, ok := c.addOns[id]
	return a, ok
}

// Products 按 ID 顺序返回全部商品
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.productIDs))
	for _, id := range c.productIDs {
		out = append(out, c.products[id])
	}
	return out
}

// AddOns 按 ID 顺序返回可选附加项，不含"不加附加项"
func (c *Catalog) AddOns() []AddOn {
	out := make([]AddOn, 0, len(c.addOnIDs))
	for _, id := range c.addOnIDs {
		out = append(out, c.addOns[id])
	}
	return out
}
