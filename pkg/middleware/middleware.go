// Package middleware 提供 Gin 通用中间件（日志、trace、panic recover、CORS、会话、指标、限流）
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// RequestIDKey gin context 中的 request ID
const RequestIDKey = "request_id"

// TraceIDKey gin context 中的 trace ID
const TraceIDKey = "trace_id"

// SessionIDKey gin context 中的会话 ID
const SessionIDKey = "session_id"

const (
	headerRequestID = "X-Request-ID"
	headerTraceID   = "X-Trace-ID"
)

// GinLoggingMiddleware Gin 日志中间件，生成 request ID 与 trace ID 并写入请求 context
func GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		traceID := c.GetHeader(headerTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(TraceIDKey, traceID)
		c.Header(headerRequestID, requestID)

		ctx := logger.ContextWithTraceID(c.Request.Context(), traceID)
		ctx = logger.ContextWithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		args := []any{
			"method", method,
			"path", path,
			"client_ip", c.ClientIP(),
			"status_code", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"duration", time.Since(start),
		}
		// 会话中间件在本中间件之后执行，这里从请求 context 取最新值
		ctx = c.Request.Context()
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error(ctx, "HTTP request completed", args...)
		default:
			logger.Info(ctx, "HTTP request completed", args...)
		}
	}
}

// GinRecoveryMiddleware Gin panic 恢复中间件
func GinRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Error(ctx, "HTTP request panicked", "panic", err, "path", c.Request.URL.Path)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success":    false,
					"code":       "INTERNAL",
					"message":    "internal server error",
					"request_id": logger.RequestIDFromContext(ctx),
				})
			}
		}()
		c.Next()
	}
}

// GinCORSMiddleware Gin CORS 中间件；会话依赖 Cookie，因此允许携带凭证
func GinCORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", headerRequestID, headerTraceID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cors.New(cfg)
}

// SessionMiddleware 读取会话 Cookie，缺失或非法时签发新的 UUID 会话
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// 每次请求都刷新 Max-Age，会话按最近一次访问续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, cfg.TTL, "/", "", cfg.Secure, true)

		c.Set(SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// SessionID 返回当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// MetricsMiddleware 记录 HTTP 请求指标，path 使用路由模板以控制标签基数
func MetricsMiddleware(collector metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds(), int64(c.Writer.Size()))
	}
}
