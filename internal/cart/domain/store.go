package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
)

const (
	// DefaultMaxQuantity 单行商品或附加项的最大数量
	DefaultMaxQuantity = 20
	// MaxKeyLength 调用方自带 key 的最大长度
	MaxKeyLength = 64
)

// validKey key 要能原样放进 /items/:key 路径段
var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// KeyGenerator 行项目 key 生成器
type KeyGenerator func() string

// AddItemInput 加入购物车的参数
type AddItemInput struct {
	ProductID     int
	AddOnID       int
	Quantity      int
	AddOnQuantity int
	// Key 调用方提供的 key，为空时由服务端生成；已存在时原位替换该行
	Key string
}

// Store 购物车状态机。所有操作都是 cart in -> cart out 的纯函数，失败时不产生任何修改
type Store struct {
	catalog     *catalog.Catalog
	maxQuantity int
	newKey      KeyGenerator
	now         func() time.Time
}

// Option Store 可选配置
type Option func(*Store)

// WithMaxQuantity 设置单行最大数量
func WithMaxQuantity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxQuantity = n
		}
	}
}

// WithKeyGenerator 设置 key 生成器
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newKey = gen
		}
	}
}

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore 创建购物车状态机
func NewStore(c *catalog.Catalog, opts ...Option) *Store {
	s := &Store{
		catalog:     c,
		maxQuantity: DefaultMaxQuantity,
		newKey:      uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxQuantity 返回单行最大数量
func (s *Store) MaxQuantity() int { return s.maxQuantity }

// AddItem 校验并加入一行，返回新购物车与新建的行项目
func (s *Store) AddItem(cart Cart, in AddItemInput) (Cart, LineItem, error) {
	key := strings.TrimSpace(in.Key)
	if key != "" && !validKey.MatchString(key) {
		return cart, LineItem{}, newError(CodeInvalidInput, "item key must be 1 to %d letters, digits, '-' or '_'", MaxKeyLength)
	}

	item, err := s.buildItem(in.ProductID, in.AddOnID, in.Quantity, in.AddOnQuantity)
	if err != nil {
		return cart, LineItem{}, err
	}

	if key == "" {
		key = s.newKey()
	}
	item.Key = key

	next := cart.clone()
	if _, idx, ok := cart.Find(key); ok {
		next.Items[idx] = item
	} else {
		next.Items = append(next.Items, item)
	}
	next.UpdatedAt = item.AddedAt
	return next, item, nil
}

// UpdateQuantity 以新数量重新定价，用带新 key 的行替换旧行（位置不变），旧 key 随之失效；
// 商品数量为 0 时删除该行并返回零值行项目
func (s *Store) UpdateQuantity(cart Cart, key string, quantity, addOnQuantity int) (Cart, LineItem, error) {
	old, idx, ok := cart.Find(key)
	if !ok {
		return cart, LineItem{}, newError(CodeItemNotFound, "item %q not in cart", key)
	}

	if quantity == 0 {
		next, _ := RemoveItem(cart, key)
		next.UpdatedAt = s.now()
		return next, LineItem{}, nil
	}

	addOnID := old.AddOnID
	if addOnID == catalog.NoAddOnID && addOnQuantity > 0 {
		return cart, LineItem{}, newError(CodeAddOnQuantityMismatch, "item %q has no addon to set a quantity for", key)
	}

	item, err := s.buildItem(old.ProductID, addOnID, quantity, addOnQuantity)
	if err != nil {
		return cart, LineItem{}, err
	}
	item.Key = s.newKey()

	next := cart.clone()
	next.Items[idx] = item
	next.UpdatedAt = item.AddedAt
	return next, item, nil
}

// buildItem 校验数量与附加项规则，解析商品并定价
func (s *Store) buildItem(productID, addOnID, quantity, addOnQuantity int) (LineItem, error) {
	if quantity < 1 || quantity > s.maxQuantity {
		return LineItem{}, newError(CodeInvalidQuantity, "quantity must be between 1 and %d", s.maxQuantity)
	}
	if addOnQuantity < 0 || addOnQuantity > s.maxQuantity {
		return LineItem{}, newError(CodeInvalidQuantity, "addon quantity must be between 0 and %d", s.maxQuantity)
	}
	if addOnID == catalog.NoAddOnID && addOnQuantity != 0 {
		return LineItem{}, newError(CodeAddOnQuantityMismatch, "addon quantity requires an addon")
	}
	if addOnQuantity == 0 {
		addOnID = catalog.NoAddOnID
	}

	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return LineItem{}, newError(CodeProductNotFound, "product %d not found", productID)
		}
		return LineItem{}, err
	}

	addOn, ok := s.catalog.LookupAddOn(addOnID)
	if !ok {
		return LineItem{}, newError(CodeAddOnNotFound, "addon %d not found", addOnID)
	}

	item := LineItem{
		ProductID:        product.ID,
		ProductName:      product.Name,
		ProductImage:     product.ImageRef,
		ProductUnitPrice: product.UnitPrice,
		ProductQuantity:  quantity,
		AddOnID:          addOn.ID,
		AddOnUnitPrice:   addOn.UnitPrice,
		AddOnQuantity:    addOnQuantity,
		LineTotal:        pricing.PriceLine(product.UnitPrice, quantity, addOn.UnitPrice, addOnQuantity),
		AddedAt:          s.now(),
	}
	if !addOn.IsNone() {
		item.AddOnName = addOn.Name
		item.AddOnImage = addOn.ImageRef
	}
	return item, nil
}

// RemoveItem 删除 key 对应的行；key 不存在时不是错误，返回 false 且购物车不变
func RemoveItem(cart Cart, key string) (Cart, bool) {
	if _, _, ok := cart.Find(key); !ok {
		return cart, false
	}
	next := Cart{Items: make([]LineItem, 0, len(cart.Items)-1), UpdatedAt: cart.UpdatedAt}
	for _, item := range cart.Items {
		if item.Key != key {
			next.Items = append(next.Items, item)
		}
	}
	return next, true
}

// RemoveProduct 删除某商品的全部行，返回删除的行数
func RemoveProduct(cart Cart, productID int) (Cart, int) {
	next := Cart{Items: make([]LineItem, 0, len(cart.Items)), UpdatedAt: cart.UpdatedAt}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			next.Items = append(next.Items, item)
		}
	}
	removed := len(cart.Items) - len(next.Items)
	if removed == 0 {
		return cart, 0
	}
	return next, removed
}

// Clear 清空购物车
func Clear(Cart) Cart {
	return Cart{Items: []LineItem{}}
}
