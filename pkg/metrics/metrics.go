// Package metrics 提供 Prometheus helper，包含 HTTP、存储与购物车业务指标
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const namespace = "storefront"

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTP 响应大小
	HTTPResponseSize *prometheus.HistogramVec

	// 会话存储操作耗时
	StoreOpDuration *prometheus.HistogramVec

	// 业务指标
	CartCommandsTotal   *prometheus.CounterVec
	CartItemsAdded      prometheus.Counter
	CheckoutsTotal      *prometheus.CounterVec
	OrderValue          prometheus.Histogram
	EventPublishFailure *prometheus.CounterVec
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
		}, []string{"method", "path"}),

		StoreOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "store_op_duration_seconds",
			Help:      "Cart session store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "op"}),

		CartCommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "cart_commands_total",
			Help:      "Cart commands by name and result",
		}, []string{"command", "result"}),
		CartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Product units added to carts",
		}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result",
		}, []string{"result"}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "order_value",
			Help:      "Grand total of placed orders",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 250, 500},
		}),
		EventPublishFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published",
		}, []string{"topic"}),
	}
}

// Register 注册所有指标，reg 为空时使用默认注册器
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.StoreOpDuration,
		m.CartCommandsTotal,
		m.CartItemsAdded,
		m.CheckoutsTotal,
		m.OrderValue,
		m.EventPublishFailure,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64)
	// 记录会话存储操作
	RecordStoreOp(store, op string, duration float64)
	// 记录购物车命令，result 为 ok 或错误码
	RecordCartCommand(command, result string)
	// 记录加入购物车的商品件数
	RecordItemsAdded(quantity int)
	// 记录结账结果；成功时 orderValue 为订单总额
	RecordCheckout(result string, orderValue float64)
	// 记录事件发布失败
	RecordPublishFailure(topic string)
}

// DefaultMetricsCollector 默认指标收集器实现
type DefaultMetricsCollector struct {
	metrics *Metrics
}

// NewDefaultMetricsCollector 创建默认指标收集器
func NewDefaultMetricsCollector(metrics *Metrics) *DefaultMetricsCollector {
	return &DefaultMetricsCollector{
		metrics: metrics,
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (dmc *DefaultMetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	dmc.metrics.HTTPRequestsTotal.WithLabelValues(method, path, statusClass(statusCode)).Inc()
	dmc.metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	if responseSize > 0 {
		dmc.metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordStoreOp 记录会话存储操作
func (dmc *DefaultMetricsCollector) RecordStoreOp(store, op string, duration float64) {
	dmc.metrics.StoreOpDuration.WithLabelValues(store, op).Observe(duration)
}

// RecordCartCommand 记录购物车命令
func (dmc *DefaultMetricsCollector) RecordCartCommand(command, result string) {
	dmc.metrics.CartCommandsTotal.WithLabelValues(command, result).Inc()
}

// RecordItemsAdded 记录加入购物车的商品件数
func (dmc *DefaultMetricsCollector) RecordItemsAdded(quantity int) {
	dmc.metrics.CartItemsAdded.Add(float64(quantity))
}

// RecordCheckout 记录结账
func (dmc *DefaultMetricsCollector) RecordCheckout(result string, orderValue float64) {
	dmc.metrics.CheckoutsTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		dmc.metrics.OrderValue.Observe(orderValue)
	}
}

// RecordPublishFailure 记录事件发布失败
func (dmc *DefaultMetricsCollector) RecordPublishFailure(topic string) {
	dmc.metrics.EventPublishFailure.WithLabelValues(topic).Inc()
}

// NopCollector 不记录任何指标，用于测试和关闭指标的场景
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, float64, int64) {}
func (NopCollector) RecordStoreOp(string, string, float64)                  {}
func (NopCollector) RecordCartCommand(string, string)                       {}
func (NopCollector) RecordItemsAdded(int)                                   {}
func (NopCollector) RecordCheckout(string, float64)                         {}
func (NopCollector) RecordPublishFailure(string)                            {}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
