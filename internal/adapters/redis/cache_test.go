package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "hotel_booking/internal/adapters/redis"
)

type entry struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got entry
	ok, err := c.Get(ctx, "hotel:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "hotel:1", entry{Name: "Sea View", Price: 120}, 60))
	ok, err = c.Get(ctx, "hotel:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry{Name: "Sea View", Price: 120}, got)

	mr.FastForward(61 * time.Second)
	ok, _ = c.Get(ctx, "hotel:1", &got)
	assert.False(t, ok, "entry should expire after its ttl")

	require.NoError(t, c.Set(ctx, "hotel:1", entry{Name: "x"}, 60))
	require.NoError(t, c.Del(ctx, "hotel:1"))
	ok, _ = c.Get(ctx, "hotel:1", &got)
	assert.False(t, ok)
}

func TestCache_IncrIsReadableAsNumber(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	n, err := c.Incr(ctx, "search:gen")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = c.Incr(ctx, "search:gen")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var gen int64
	ok, err := c.Get(ctx, "search:gen", &gen)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, gen)
}
