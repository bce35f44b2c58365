package redis

import (
	"context"
	"testing"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/cart"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Hour), mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	_, err := c.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, c.SetSession(ctx, &SessionData{SessionID: "s1", UserID: "u1"}, time.Minute))
	got, err := c.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRoleCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.SetRole(ctx, "u1", "driver", time.Minute))
	role, err := c.GetRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "driver", role)

	require.NoError(t, c.InvalidateRole(ctx, "u1"))
	_, err = c.GetRole(ctx, "u1")
	assert.ErrorIs(t, err, ErrRoleNotCached)
}

func TestTempData(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.SetTempData(ctx, "reset:abc", map[string]string{"user_id": "u1"}, time.Minute))
	var dest map[string]string
	require.NoError(t, c.GetTempData(ctx, "reset:abc", &dest))
	assert.Equal(t, "u1", dest["user_id"])

	require.NoError(t, c.DeleteTempData(ctx, "reset:abc"))
	assert.ErrorIs(t, c.GetTempData(ctx, "reset:abc", &dest), ErrTempDataNotFound)
}

func TestTakeTempDataIsSingleUse(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.SetTempData(ctx, "intent:order_1", map[string]int64{"amount": 34000}, time.Minute))

	var first map[string]int64
	require.NoError(t, c.TakeTempData(ctx, "intent:order_1", &first))
	assert.Equal(t, int64(34000), first["amount"])

	var second map[string]int64
	assert.ErrorIs(t, c.TakeTempData(ctx, "intent:order_1", &second), ErrTempDataNotFound)
}

func TestCartStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.LoadCart(ctx, "client-1")
	assert.ErrorIs(t, err, cart.ErrNoCart)

	require.NoError(t, c.SaveCart(ctx, "client-1", []byte(`[{"id":"x"}]`)))
	data, err := c.LoadCart(ctx, "client-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"x"}]`, string(data))

	var _ cart.Store = c
}
