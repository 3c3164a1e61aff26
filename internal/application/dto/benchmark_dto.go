package dto

import "github.com/shopspring/decimal"

// BenchmarkContributionDTO resultado de POST /api/benchmarks/contribute.
// Applied=false indica que la empresa ya había aportado a ese bucket.
type BenchmarkContributionDTO struct {
	Niche        string `json:"niche"`
	RevenueRange string `json:"revenue_range"`
	Applied      bool   `json:"applied"`
	SampleSize   int    `json:"sample_size"`
}

// MetricComparisonDTO una métrica propia contra el promedio del bucket.
type MetricComparisonDTO struct {
	Metric     string          `json:"metric"`
	Yours      decimal.Decimal `json:"yours"`
	Average    decimal.Decimal `json:"average"`
	Percentile int             `json:"percentile"` // banda aproximada, no percentil estadístico
	Status     string          `json:"status"`     // above|below|average
}

// BenchmarkComparisonDTO respuesta de GET /api/benchmarks/compare.
type BenchmarkComparisonDTO struct {
	Niche        string                `json:"niche"`
	RevenueRange string                `json:"revenue_range"`
	NoBenchmark  bool                  `json:"no_benchmark"`
	SampleSize   int                   `json:"sample_size"`
	Metrics      []MetricComparisonDTO `json:"metrics,omitempty"`
}
