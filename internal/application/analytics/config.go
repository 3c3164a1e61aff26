// Package analytics contiene los casos de uso de métricas de ingresos, analítica por
// miembro, benchmarks entre empresas y reportes.
//
// Los casos de uso leen un snapshot de la empresa desde los repositorios y delegan todo
// el cálculo en el motor puro (domain/metrics).
package analytics

import (
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
)

const (
	defaultCohortCount    = 6
	defaultScoringWorkers = 8
	maxCohortCount        = 24
	maxGrowthMonths       = 36
)

// Config parámetros de los casos de uso de analítica.
type Config struct {
	CacheTTL       time.Duration
	CohortCount    int
	ScoringWorkers int
	Heuristics     metrics.Heuristics
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.CohortCount <= 0 {
		c.CohortCount = defaultCohortCount
	}
	if c.ScoringWorkers <= 0 {
		c.ScoringWorkers = defaultScoringWorkers
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func (c Config) now() time.Time { return c.Now().UTC() }
