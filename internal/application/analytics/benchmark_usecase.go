package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// BenchmarkUseCase aportes y comparación contra el promedio de empresas similares
// (mismo nicho y rango de ingresos).
type BenchmarkUseCase struct {
	companies  repository.CompanyRepository
	benchmarks repository.BenchmarkRepository
	loader     snapshotLoader
	cfg        Config
	log        zerolog.Logger
}

// NewBenchmarkUseCase construye el caso de uso.
func NewBenchmarkUseCase(
	companies repository.CompanyRepository,
	benchmarks repository.BenchmarkRepository,
	memberships repository.MembershipRepository,
	payments repository.PaymentRepository,
	products repository.ProductRepository,
	cfg Config,
	log zerolog.Logger,
) *BenchmarkUseCase {
	return &BenchmarkUseCase{
		companies:  companies,
		benchmarks: benchmarks,
		loader:     snapshotLoader{memberships: memberships, payments: payments, products: products},
		cfg:        cfg.withDefaults(),
		log:        log,
	}
}

// companyProfile nicho, rango y métricas actuales de la empresa.
type companyProfile struct {
	niche        string
	revenueRange string
	summary      companySummary
}

func (uc *BenchmarkUseCase) profile(ctx context.Context, companyID string) (*companyProfile, error) {
	if _, err := uc.companies.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("empresa: %w", err)
	}
	snap, err := uc.loader.load(ctx, companyID, snapshotParts{memberships: true, products: true, plans: true})
	if err != nil {
		return nil, err
	}
	s := summarize(snap, uc.cfg.now(), uc.cfg.Heuristics)
	return &companyProfile{
		niche:        metrics.DetermineNiche(snap.products),
		revenueRange: metrics.RevenueRange(s.mrr),
		summary:      s,
	}, nil
}

// ContributeBenchmark aporta las métricas de la empresa a su bucket (nicho, rango).
// Es idempotente: un segundo aporte de la misma empresa no modifica el promedio.
func (uc *BenchmarkUseCase) ContributeBenchmark(ctx context.Context, companyID string) (*dto.BenchmarkContributionDTO, error) {
	p, err := uc.profile(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("benchmark.Contribute: %w", err)
	}

	sample := metrics.BenchmarkSample{
		MRR:       p.summary.mrr,
		ChurnRate: p.summary.churnRate,
		LTV:       p.summary.ltv,
		ARPU:      p.summary.arpu,
	}
	var applied bool
	row, err := uc.benchmarks.Update(ctx, p.niche, p.revenueRange, func(current *entity.BenchmarkData) (*entity.BenchmarkData, bool, error) {
		next, ok := metrics.MergeContribution(current, companyID, sample)
		applied = ok
		return next, ok, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, err
		}
		return nil, fmt.Errorf("benchmark.Contribute: %w", err)
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("niche", p.niche).
		Str("revenue_range", p.revenueRange).
		Bool("applied", applied).
		Int("sample_size", row.SampleSize).
		Msg("aporte a benchmark")

	return &dto.BenchmarkContributionDTO{
		Niche:        p.niche,
		RevenueRange: p.revenueRange,
		Applied:      applied,
		SampleSize:   row.SampleSize,
	}, nil
}

// CompareBenchmark compara las métricas de la empresa contra el promedio de su bucket.
// Sin datos en el bucket devuelve NoBenchmark=true.
func (uc *BenchmarkUseCase) CompareBenchmark(ctx context.Context, companyID string) (*dto.BenchmarkComparisonDTO, error) {
	p, err := uc.profile(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("benchmark.Compare: %w", err)
	}

	row, err := uc.benchmarks.Get(ctx, p.niche, p.revenueRange)
	if err != nil {
		return nil, fmt.Errorf("benchmark.Compare: %w", err)
	}
	out := &dto.BenchmarkComparisonDTO{Niche: p.niche, RevenueRange: p.revenueRange}
	if row == nil || row.SampleSize == 0 {
		out.NoBenchmark = true
		return out, nil
	}

	out.SampleSize = row.SampleSize
	out.Metrics = []dto.MetricComparisonDTO{
		compareMetric("mrr", p.summary.mrr, row.AvgMRR, false),
		compareMetric("churn_rate", p.summary.churnRate, row.AvgChurnRate, true),
		compareMetric("ltv", p.summary.ltv, row.AvgLTV, false),
		compareMetric("arpu", p.summary.arpu, row.AvgARPU, false),
	}
	return out, nil
}

func compareMetric(name string, yours, average decimal.Decimal, lowerIsBetter bool) dto.MetricComparisonDTO {
	return dto.MetricComparisonDTO{
		Metric:     name,
		Yours:      yours,
		Average:    average,
		Percentile: metrics.PercentileBand(yours, average, lowerIsBetter),
		Status:     metrics.CompareStatus(yours, average, lowerIsBetter),
	}
}
