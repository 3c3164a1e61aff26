package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/ports"
)

// DefaultCacheTTL vigencia de una métrica cacheada.
const DefaultCacheTTL = time.Hour

// CacheKey clave de caché: metrics:<companyID>:<metricType>:<YYYY-MM-DD>.
// La fecha del día acota la vigencia aunque el TTL no haya vencido.
func CacheKey(companyID, metricType string, day time.Time) string {
	return fmt.Sprintf("metrics:%s:%s:%s", companyID, metricType, day.UTC().Format("2006-01-02"))
}

// CompanyKeyPattern patrón que cubre todas las claves de una empresa.
func CompanyKeyPattern(companyID string) string {
	return fmt.Sprintf("metrics:%s:*", companyID)
}

// cacheAside lee la métrica del caché o la calcula y la guarda.
// Los errores del caché se registran y se ignoran; dos pedidos simultáneos
// ante un miss pueden calcular la misma métrica, lo cual es aceptable.
func cacheAside[T any](
	ctx context.Context,
	cache ports.MetricsCache,
	ttl time.Duration,
	log zerolog.Logger,
	key string,
	compute func() (T, error),
) (T, error) {
	if cache != nil {
		raw, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("caché de métricas: lectura fallida")
		case ok:
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			log.Warn().Str("key", key).Msg("caché de métricas: valor corrupto, se recalcula")
		}
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	if cache != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			err = cache.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("caché de métricas: escritura fallida")
		}
	}
	return v, nil
}
