package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Revenue-api/internal/application/ports"
)

// NoopCache caché vacío para cuando no hay Redis configurado: todo es miss.
type NoopCache struct{}

var _ ports.MetricsCache = NoopCache{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopCache) InvalidateCompany(context.Context, string) error          { return nil }
