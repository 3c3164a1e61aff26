package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Revenue-api/internal/infrastructure/cache"
)

type fakeObserver struct {
	hits, misses int
	errors       map[string]int
	state        int
}

func (o *fakeObserver) CacheHit()                 { o.hits++ }
func (o *fakeObserver) CacheMiss()                { o.misses++ }
func (o *fakeObserver) CacheError(op string)      { o.errors[op]++ }
func (o *fakeObserver) SetBreakerState(state int) { o.state = state }

// Redis inalcanzable: conexión rechazada al instante y sin reintentos.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCache_AbreCircuitoTrasFallosConsecutivos(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	obs := &fakeObserver{errors: map[string]int{}}
	c := cache.NewRedisCache(client, obs, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, ok, err := c.Get(ctx, "metrics:c1:mrr:2024-06-15")
		require.Error(t, err)
		assert.False(t, ok)
	}

	_, _, err := c.Get(ctx, "metrics:c1:mrr:2024-06-15")
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int(gobreaker.StateOpen), obs.state)
	assert.Equal(t, 6, obs.errors["get"])
	assert.Zero(t, obs.hits)
}

func TestRedisCache_SetEInvalidateConRedisCaido(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	obs := &fakeObserver{errors: map[string]int{}}
	c := cache.NewRedisCache(client, obs, zerolog.Nop())

	assert.Error(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	assert.Error(t, c.InvalidateCompany(context.Background(), "c1"))
	assert.Equal(t, 1, obs.errors["set"])
	assert.Equal(t, 1, obs.errors["invalidate"])
}

func TestNoopCache_SiempreMiss(t *testing.T) {
	var c cache.NoopCache
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	v, ok, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, c.InvalidateCompany(context.Background(), "c1"))
}
