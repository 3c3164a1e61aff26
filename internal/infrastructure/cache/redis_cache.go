// Package cache implementa ports.MetricsCache sobre Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/pkg/config"
)

const (
	scanCount         = 200
	breakerFailures   = 5
	breakerOpenPeriod = 30 * time.Second
)

// Observer recibe los eventos del caché (implementado por observability.Metrics).
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheError(op string)
	SetBreakerState(state int)
}

// RedisCache caché de métricas con circuit breaker: con Redis caído las lecturas
// fallan rápido y el use case recalcula.
type RedisCache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
	obs     Observer
	log     zerolog.Logger
}

var _ ports.MetricsCache = (*RedisCache)(nil)

// NewRedisClient cliente de nodo único; verifica la conexión con un Ping de 5s.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("REDIS_ADDR vacío")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRedisCache envuelve el cliente. obs puede ser nil.
func NewRedisCache(client redis.UniversalClient, obs Observer, log zerolog.Logger) *RedisCache {
	c := &RedisCache{client: client, obs: obs, log: log}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "metrics-cache",
		Timeout: breakerOpenPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("caché de métricas: cambio de estado del circuit breaker")
			if c.obs != nil {
				c.obs.SetBreakerState(int(to))
			}
		},
	})
	return c
}

// Get devuelve (nil, false, nil) si la clave no existe.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		c.observeError("get")
		return nil, false, fmt.Errorf("RedisCache.Get: %w", err)
	}
	b, _ := res.([]byte)
	if b == nil {
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return nil, false, nil
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return b, true, nil
}

// Set guarda el valor con TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		c.observeError("set")
		return fmt.Errorf("RedisCache.Set: %w", err)
	}
	return nil
}

// InvalidateCompany recorre las claves de la empresa con SCAN (nunca KEYS) y las borra por lotes.
func (c *RedisCache) InvalidateCompany(ctx context.Context, companyID string) error {
	pattern := analytics.CompanyKeyPattern(companyID)
	_, err := c.breaker.Execute(func() (interface{}, error) {
		var cursor uint64
		for {
			keys, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
			if err != nil {
				return nil, err
			}
			if len(keys) > 0 {
				if err := c.client.Del(ctx, keys...).Err(); err != nil {
					return nil, err
				}
			}
			cursor = next
			if cursor == 0 {
				return nil, nil
			}
		}
	})
	if err != nil {
		c.observeError("invalidate")
		return fmt.Errorf("RedisCache.InvalidateCompany: %w", err)
	}
	return nil
}

func (c *RedisCache) observeError(op string) {
	if c.obs != nil {
		c.obs.CacheError(op)
	}
}
