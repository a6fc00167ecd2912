package logger

import (
	"net/http"
	"strings"
	"time"

	obscontext "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
	// ResourceIDKey lets a handler name the record it created when the
	// route carries no :id parameter.
	ResourceIDKey = "resource_id"
)

type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (errorType string, errorCode string)
}

// GinMiddleware writes one http_request line per request, tagged with the
// storefront resource (produtos, usuarios, pedidos, stats) it touched.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := RouteOf(c)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if resource := ResourceOf(route); resource != "" {
			fields = append(fields, zap.String("resource", resource))
		}
		if id := ResourceIDOf(c); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		}

		var errorType string
		if last := c.Errors.Last(); last != nil && cfg.ErrorClassifier != nil {
			var errorCode string
			errorType, errorCode = cfg.ErrorClassifier(last.Err)
			fields = append(fields, zap.String("error_type", errorType), zap.String("error_code", errorCode))
			if cfg.Debug && status >= http.StatusInternalServerError {
				fields = append(fields, zap.String("error", last.Err.Error()))
			}
		}

		if log := FromContext(c.Request.Context()); log != nil {
			log.Log(requestLevel(route, status, errorType), "http_request", fields...)
		}
	}
}

// RouteOf is the matched route template, or "unknown" for unmatched paths.
func RouteOf(c *gin.Context) string {
	if route := strings.TrimSpace(c.FullPath()); route != "" {
		return route
	}
	return "unknown"
}

// ResourceOf returns the first segment under /api, e.g. "pedidos" for
// /api/pedidos/:id/recibo.
func ResourceOf(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	resource, _, _ := strings.Cut(rest, "/")
	return resource
}

func ResourceIDOf(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetString(ResourceIDKey)); id != "" {
		return id
	}
	return strings.TrimSpace(c.Param("id"))
}

func ensureRequestID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(RequestIDKey, id)
	c.Header(RequestIDHeader, id)
	return id
}

func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case route == "/health" || route == "/api/health" || route == "/metrics":
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusTooManyRequests, errorType == "validation_error":
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
