package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cart "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/messaging"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/memory"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	redisrepo "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/redis"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/static"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/storefront/internal/order/application"
	orderhttp "github.com/wyfcoding/storefront/internal/order/interfaces/http"
	pricing "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/lock"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

// app 进程内的全部依赖，便于统一关闭
type app struct {
	cfg       *config.Config
	router    *gin.Engine
	closers   []func() error
	purgeJobs []func(context.Context) error
	// checks 健康检查依赖，key 为组件名
	checks map[string]func(context.Context) error
}

func main() {
	flag.Parse()

	// 本地开发时从 .env 读取 APP_ 环境变量，文件不存在时忽略
	_ = godotenv.Load()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	a, err := build(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to build storefront", "error", err)
	}
	defer a.close()

	if err := a.run(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
}

// build 按配置组装存储、锁、事件发布与 HTTP 路由
func build(cfg *config.Config) (*app, error) {
	ctx := context.Background()
	a := &app{cfg: cfg, checks: make(map[string]func(context.Context) error)}

	// 3. 初始化指标
	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if cfg.Metrics.Enabled {
		m := metrics.New(strings.ReplaceAll(cfg.ServiceName, "-", "_"))
		if err := m.Register(nil); err != nil {
			return nil, err
		}
		collector = metrics.NewDefaultMetricsCollector(m)
	}

	// 4. 计价与商品目录
	policy, err := pricing.NewPolicy(cfg.Pricing.TaxRate, cfg.Pricing.ShippingThreshold, cfg.Pricing.ShippingFee)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	products, err := static.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	// 5. 初始化基础设施
	var redisCache *cache.RedisCache
	if cfg.Session.Store == "redis" || cfg.Session.Lock == "redis" || cfg.RateLimit.Enabled {
		redisCache, err = cache.New(cfg.Redis, redisrepo.KeyPrefix)
		if err != nil {
			if cfg.Session.Store == "redis" || cfg.Session.Lock == "redis" {
				return nil, err
			}
			// 只有限流依赖 Redis 时退化为进程内限流
			logger.Warn(ctx, "redis unavailable, using local rate limiter", "error", err)
		} else {
			a.closers = append(a.closers, redisCache.Close)
			a.checks["redis"] = redisCache.Ping
		}
	}

	ttl := time.Duration(cfg.Session.TTL) * time.Second
	var repo cart.CartRepository
	switch cfg.Session.Store {
	case "redis":
		repo = redisrepo.NewCartRepository(redisCache, ttl)
	case "mysql":
		database, err := db.Init(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		a.checks["mysql"] = database.Ping
		if err := mysql.AutoMigrate(database); err != nil {
			return nil, fmt.Errorf("failed to migrate cart_sessions: %w", err)
		}
		repo = mysql.NewCartRepository(database, ttl)
		a.purgeJobs = append(a.purgeJobs, func(ctx context.Context) error {
			n, err := mysql.PurgeExpired(ctx, database, time.Now())
			if err == nil && n > 0 {
				logger.Info(ctx, "purged expired cart sessions", "count", n)
			}
			return err
		})
	default:
		repo = memory.NewCartRepository(ttl)
	}
	repo = persistence.Instrument(repo, cfg.Session.Store, collector)

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Session.Lock == "redis" {
		locker = lock.NewRedisLocker(redisCache.GetClient(), "storefront:lock:", 10*time.Second)
	}
	lockTimeout := time.Duration(cfg.Session.LockTimeout) * time.Millisecond

	publisher := messaging.NewLogPublisher()
	if cfg.Kafka.Enabled {
		producer := mq.NewProducer(cfg.Kafka)
		a.closers = append(a.closers, producer.Close)
		publisher = messaging.NewKafkaPublisher(producer)
	}

	// 6. 初始化应用服务
	store := cart.NewStore(products, cart.WithMaxQuantity(cfg.Pricing.MaxQuantity))
	cartService := cartapp.NewCartApplicationService(
		cartapp.NewCartCommandService(store, repo, publisher, locker, collector, lockTimeout),
		cartapp.NewCartQueryService(repo, policy),
	)
	checkoutService := orderapp.NewCheckoutService(repo, publisher, locker, policy, collector, lockTimeout)
	catalogService := catalogapp.NewCatalogQueryService(products)

	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLocalRateLimiter()
		if redisCache != nil {
			limiter = ratelimit.WithFallback(
				ratelimit.NewRedisRateLimiter(redisCache.GetClient(), redisrepo.KeyPrefix+":"),
				limiter,
				func(ctx context.Context, err error) {
					logger.Warn(ctx, "redis rate limiter failed, using local bucket", "error", err)
				},
			)
		}
	}

	// 7. 初始化接口层
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(cfg.HTTP.AllowOrigins),
		middleware.MetricsMiddleware(collector),
	)

	r.GET("/health", a.health)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api",
		middleware.RateLimitMiddleware(limiter, cfg.RateLimit),
		middleware.SessionMiddleware(cfg.Session),
	)
	cataloghttp.NewCatalogHandler(catalogService, cartService).RegisterRoutes(api)
	carthttp.NewCartHandler(cartService).RegisterRoutes(api)
	orderhttp.NewCheckoutHandler(checkoutService).RegisterRoutes(api)

	a.router = r
	logger.Info(ctx, "storefront assembled",
		"store", cfg.Session.Store,
		"lock", cfg.Session.Lock,
		"kafka", cfg.Kafka.Enabled,
		"products", len(products.Products()),
	)
	return a, nil
}

// health 依次探测外部依赖，任一失败返回 503
func (a *app) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	components := gin.H{}
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			logger.Warn(ctx, "health check failed", "component", name, "error", err)
			components[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}
	c.JSON(code, gin.H{
		"status":     status,
		"service":    a.cfg.ServiceName,
		"version":    a.cfg.Version,
		"components": components,
	})
}

// run 启动 HTTP 服务与后台任务，收到 SIGINT/SIGTERM 后优雅关闭
func (a *app) run() error {
	g, ctx := errgroup.WithContext(context.Background())

	addr := fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	for _, job := range a.purgeJobs {
		job := job
		g.Go(func() error {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := job(ctx); err != nil {
						logger.Warn(ctx, "purge job failed", "error", err)
					}
				}
			}
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-ctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// 通知后台任务退出
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	return nil
}

var errShutdown = errors.New("shutdown")

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}
