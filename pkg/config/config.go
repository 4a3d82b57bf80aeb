// Package config 提供 TOML 配置加载、环境变量覆盖与配置校验
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 基础配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 会话配置
	Session SessionConfig `mapstructure:"session"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// 计价配置
	Pricing PricingConfig `mapstructure:"pricing"`
	// 商品目录配置
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
	// 允许跨域的来源
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// SessionConfig 会话（购物车存储）配置
type SessionConfig struct {
	// 存储驱动：memory, redis, mysql
	Store string `mapstructure:"store"`
	// Cookie 名称
	CookieName string `mapstructure:"cookie_name"`
	// 会话有效期（秒）
	TTL int `mapstructure:"ttl"`
	// 是否仅 HTTPS 传输 Cookie
	Secure bool `mapstructure:"secure"`
	// 会话锁：local（进程内）或 redis（多实例）
	Lock string `mapstructure:"lock"`
	// 获取会话锁的超时（毫秒）
	LockTimeout int `mapstructure:"lock_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql
	Driver string `mapstructure:"driver"`
	// 数据源名称
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// 连接最大生命周期（秒）
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	// 是否启用日志
	LogEnabled bool `mapstructure:"log_enabled"`
	// 慢查询阈值（毫秒）
	SlowQueryThreshold int `mapstructure:"slow_query_threshold"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 主机地址
	Host string `mapstructure:"host"`
	// 端口
	Port int `mapstructure:"port"`
	// 密码
	Password string `mapstructure:"password"`
	// 数据库编号
	DB int `mapstructure:"db"`
	// 最大连接数
	MaxPoolSize int `mapstructure:"max_pool_size"`
	// 连接超时（秒）
	ConnTimeout int `mapstructure:"conn_timeout"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	// 是否启用事件发布
	Enabled bool `mapstructure:"enabled"`
	// Broker 地址列表
	Brokers []string `mapstructure:"brokers"`
	// 事件主题
	Topic string `mapstructure:"topic"`
	// 最大重试次数
	MaxRetries int `mapstructure:"max_retries"`
	// 重试退避（毫秒）
	RetryBackoff int `mapstructure:"retry_backoff"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// RateLimitConfig 限流配置，依赖 Redis
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	QPS     int  `mapstructure:"qps"`
	Burst   int  `mapstructure:"burst"`
}

// PricingConfig 计价配置，金额使用字符串以避免浮点误差
type PricingConfig struct {
	// 税率，例如 "0.10"
	TaxRate string `mapstructure:"tax_rate"`
	// 免运费门槛，例如 "50.00"
	ShippingThreshold string `mapstructure:"shipping_threshold"`
	// 运费，例如 "5.00"
	ShippingFee string `mapstructure:"shipping_fee"`
	// 单行最大数量
	MaxQuantity int `mapstructure:"max_quantity"`
}

// CatalogConfig 商品目录配置，为空时使用内置菜单
type CatalogConfig struct {
	Products []CatalogItemConfig `mapstructure:"products"`
	AddOns   []CatalogItemConfig `mapstructure:"addons"`
}

// CatalogItemConfig 商品或附加项配置
type CatalogItemConfig struct {
	ID    int    `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	Price string `mapstructure:"price"`
	Image string `mapstructure:"image"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// LoadWithDefaults 从 TOML 文件加载配置，文件不存在时只使用默认值
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		// 读取配置文件（如果不存在则忽略）
		_ = v.ReadInConfig()
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	// 设置环境变量前缀，自动绑定环境变量（使用 _ 替代 .）
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	switch c.Session.Store {
	case "memory", "redis":
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for mysql session store")
		}
	default:
		return fmt.Errorf("unsupported session store: %q", c.Session.Store)
	}
	switch c.Session.Lock {
	case "local", "redis":
	default:
		return fmt.Errorf("unsupported session lock: %q", c.Session.Lock)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie_name is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl: %d", c.Session.TTL)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}
	if c.Pricing.MaxQuantity <= 0 {
		return fmt.Errorf("invalid pricing max_quantity: %d", c.Pricing.MaxQuantity)
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "storefront")
	v.SetDefault("version", "dev")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("http.allow_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.cookie_name", "storefront_session")
	v.SetDefault("session.ttl", 86400)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.lock", "local")
	v.SetDefault("session.lock_timeout", 2000)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.conn_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "storefront.events")
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/storefront.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.qps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("pricing.tax_rate", "0.10")
	v.SetDefault("pricing.shipping_threshold", "50.00")
	v.SetDefault("pricing.shipping_fee", "5.00")
	v.SetDefault("pricing.max_quantity", 20)
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
