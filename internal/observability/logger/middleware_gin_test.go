package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(err error) (string, string) { return "validation_error", err.Error() },
	}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/pedidos/:id/recibo", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/pedidos", func(c *gin.Context) {
		c.Set(ResourceIDKey, "1789")
		c.Status(http.StatusCreated)
	})
	r.PUT("/api/produtos/:id", func(c *gin.Context) {
		_ = c.Error(errors.New("invalid_price"))
		c.Status(http.StatusBadRequest)
	})
	return r
}

func TestRequestLineCarriesResource(t *testing.T) {
	logs := captureLogs(t)
	r := newTestEngine()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pedidos/42/recibo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/pedidos/:id/recibo", fields["route"])
	assert.Equal(t, "pedidos", fields["resource"])
	assert.Equal(t, "42", fields["resource_id"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), fields["request_id"])
}

func TestRequestLineUsesHandlerResourceID(t *testing.T) {
	logs := captureLogs(t)
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", nil)
	req.Header.Set(RequestIDHeader, "caixa-01")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "caixa-01", rec.Header().Get(RequestIDHeader))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "1789", entries[0].ContextMap()["resource_id"])
}

func TestRequestLevels(t *testing.T) {
	logs := captureLogs(t)
	r := newTestEngine()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/produtos/3", nil))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.NotContains(t, entries[0].ContextMap(), "resource")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	fields := entries[1].ContextMap()
	assert.Equal(t, "validation_error", fields["error_type"])
	assert.Equal(t, "invalid_price", fields["error_code"])
	assert.NotContains(t, fields, "error")
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "produtos", ResourceOf("/api/produtos"))
	assert.Equal(t, "stats", ResourceOf("/api/stats/dashboard"))
	assert.Equal(t, "", ResourceOf("/health"))
	assert.Equal(t, "", ResourceOf("unknown"))
}

func TestRequestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/api/pedidos", http.StatusInternalServerError, ""))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/pedidos", http.StatusTooManyRequests, ""))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/metrics", http.StatusOK, ""))
}
