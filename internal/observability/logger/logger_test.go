package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	obscontext "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestCoreNeverSamplesWarnings(t *testing.T) {
	var buf bytes.Buffer
	log := zap.New(newCore(zapcore.AddSync(&buf), "json", zapcore.InfoLevel))

	for i := 0; i < 250; i++ {
		log.Info("produto listado")
		log.Warn("estoque insuficiente")
	}
	log.Debug("abaixo do nivel")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.Equal(t, sampleFirst+(250-sampleFirst)/sampleThereafter, strings.Count(out, "produto listado"))
	assert.Equal(t, 250, strings.Count(out, "estoque insuficiente"))
	assert.NotContains(t, out, "abaixo do nivel")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestWithContextAddsRequestFields(t *testing.T) {
	logs := captureLogs(t)
	ctx := obscontext.WithRequestID(context.Background(), "req-1")

	FromContext(ctx).Info("pedido criado")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
}
