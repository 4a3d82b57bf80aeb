// Package mysql 基于 GORM 的会话购物车存储，每个会话一行，购物车以 JSON 保存
package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

// CartSessionModel cart_sessions 表
type CartSessionModel struct {
	SessionID string    `gorm:"column:session_id;primaryKey;type:varchar(64)"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 表名
func (CartSessionModel) TableName() string { return "cart_sessions" }

type cartRepository struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// NewCartRepository 创建 MySQL 存储
func NewCartRepository(database *db.DB, ttl time.Duration) domain.CartRepository {
	return &cartRepository{db: database, ttl: ttl, now: time.Now}
}

// AutoMigrate 创建或更新 cart_sessions 表结构
func AutoMigrate(database *db.DB) error {
	return database.AutoMigrate(&CartSessionModel{})
}

func (r *cartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var m CartSessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, r.now()).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Cart{Items: []domain.LineItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mysql get cart: %w", err)
	}
	return fromModel(m)
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	m, err := toModel(sessionID, cart, r.now(), r.ttl)
	if err != nil {
		return err
	}
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		return db.Upsert(tx, m, []string{"session_id"}, []string{"payload", "expires_at", "updated_at"})
	})
	if err != nil {
		return fmt.Errorf("mysql save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&CartSessionModel{}).Error
	if err != nil {
		return fmt.Errorf("mysql delete cart: %w", err)
	}
	return nil
}

// PurgeExpired 删除已过期的会话，返回删除行数
func PurgeExpired(ctx context.Context, database *db.DB, now time.Time) (int64, error) {
	res := database.WithContext(ctx).Where("expires_at <= ?", now).Delete(&CartSessionModel{})
	return res.RowsAffected, res.Error
}

func toModel(sessionID string, cart *domain.Cart, now time.Time, ttl time.Duration) (*CartSessionModel, error) {
	payload, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return &CartSessionModel{
		SessionID: sessionID,
		Payload:   string(payload),
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}, nil
}

func fromModel(m CartSessionModel) (*domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal([]byte(m.Payload), &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", m.SessionID, err)
	}
	if cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}
	return &cart, nil
}
