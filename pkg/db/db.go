// Package db 提供 GORM MySQL 连接、事务与 upsert 助手，SQL 日志输出到 pkg/logger
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/pkg/config"
	pkgLogger "github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB 数据库实例包装
type DB struct {
	*gorm.DB
	config config.DatabaseConfig
}

// Init 打开 MySQL 连接、配置连接池并探测可用性
func Init(cfg config.DatabaseConfig) (*DB, error) {
	if cfg.Driver != "" && cfg.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:                 NewGormLogger(cfg.LogEnabled, time.Duration(cfg.SlowQueryThreshold)*time.Millisecond),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &DB{DB: gdb, config: cfg}
	if err := d.configurePool(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}

	pkgLogger.Info(ctx, "Database connected successfully",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return d, nil
}

func (d *DB) configurePool() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(d.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(d.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(d.config.ConnMaxLifetime) * time.Second)
	return nil
}

// Ping 探测数据库连接，用于启动与健康检查
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx 在事务中执行 fn，fn 返回错误或 panic 时回滚
func (d *DB) WithTx(ctx context.Context, fn func(*gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// Upsert 按 conflictColumns 冲突时只更新 updateColumns
func Upsert(tx *gorm.DB, record any, conflictColumns []string, updateColumns []string) error {
	columns := make([]clause.Column, 0, len(conflictColumns))
	for _, name := range conflictColumns {
		columns = append(columns, clause.Column{Name: name})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   columns,
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).Create(record).Error
}

// GormLogger 把 GORM 日志转到 pkg/logger。
// 失败的 SQL 与慢查询总是记录，普通 SQL 只在开启日志时以 debug 级别记录
type GormLogger struct {
	level              logger.LogLevel
	slowQueryThreshold time.Duration
}

// NewGormLogger 创建 GORM 日志记录器
func NewGormLogger(enabled bool, slowQueryThreshold time.Duration) *GormLogger {
	level := logger.Warn
	if enabled {
		level = logger.Info
	}
	return &GormLogger{level: level, slowQueryThreshold: slowQueryThreshold}
}

// LogMode 返回指定级别的副本
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		pkgLogger.Info(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		pkgLogger.Warn(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		pkgLogger.Error(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace 记录一条 SQL；记录不存在不算失败，购物车存储把它当作空购物车
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := l.slowQueryThreshold > 0 && elapsed > l.slowQueryThreshold

	switch {
	case failed && l.level >= logger.Error:
		sql, rows := fc()
		pkgLogger.Error(ctx, "SQL failed", "sql", sql, "rows", rows, "duration", elapsed, "error", err)
	case slow && l.level >= logger.Warn:
		sql, rows := fc()
		pkgLogger.Warn(ctx, "slow SQL", "sql", sql, "rows", rows, "duration", elapsed, "threshold", l.slowQueryThreshold)
	case l.level >= logger.Info:
		sql, rows := fc()
		pkgLogger.Debug(ctx, "SQL", "sql", sql, "rows", rows, "duration", elapsed)
	}
}
