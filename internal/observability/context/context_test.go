package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "  req-1 ")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))

	ctx = WithRequestID(context.Background(), "   ")
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestActor(t *testing.T) {
	kind, id := ActorFromContext(context.Background())
	assert.Empty(t, kind)
	assert.Empty(t, id)

	ctx := WithActor(context.Background(), "admin", "7")
	kind, id = ActorFromContext(ctx)
	assert.Equal(t, "admin", kind)
	assert.Equal(t, "7", id)
}
