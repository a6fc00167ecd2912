package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestSpanNamedAfterRoute(t *testing.T) {
	rec := recordSpans(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/produtos/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/pedidos", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/produtos/77", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/pedidos", nil))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /api/produtos/:id", spans[0].Name())
	got := attrs(spans[0])
	assert.Equal(t, "produtos", got["shop.resource"].AsString())
	assert.Equal(t, "77", got["shop.resource_id"].AsString())
	assert.Equal(t, int64(http.StatusOK), got["http.response.status_code"].AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "POST /api/pedidos", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
