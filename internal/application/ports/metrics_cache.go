package ports

import (
	"context"
	"time"
)

// MetricsCache define el puerto de salida para el caché de métricas calculadas.
// Es best effort: un error del caché nunca debe impedir recalcular la métrica.
type MetricsCache interface {
	// Get devuelve (nil, false, nil) ante un miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidateCompany elimina todas las claves de la empresa.
	InvalidateCompany(ctx context.Context, companyID string) error
}
