package authorization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorizeAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "admin:1", RoleAdmin, ObjectProduct, ActionProductCreate))
	assert.NoError(t, svc.Authorize(ctx, "admin:1", RoleAdmin, ObjectStats, ActionStatsView))
	assert.NoError(t, svc.Authorize(ctx, "admin:1", RoleAdmin, ObjectOrder, ActionOrderUpdateStatus))
}

func TestAuthorizeViewerIsReadOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "admin:2", RoleViewer, ObjectOrder, ActionOrderView))
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:2", RoleViewer, ObjectProduct, ActionProductDelete), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:2", RoleViewer, ObjectOrder, ActionOrderUpdateStatus), ErrForbidden)
}

func TestAuthorizeRoleChangeReplacesGrouping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "admin:3", RoleAdmin, ObjectProduct, ActionProductUpdate))
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:3", RoleViewer, ObjectProduct, ActionProductUpdate), ErrForbidden)
}

func TestAuthorizeRejectsUnknownRoleAndBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "admin:4", "customer", ObjectStats, ActionStatsView), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:4", "", ObjectStats, ActionStatsView), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "", RoleAdmin, ObjectStats, ActionStatsView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:4", RoleAdmin, "", ActionStatsView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin:4", RoleAdmin, ObjectStats, " "), ErrInvalidAction)
}
