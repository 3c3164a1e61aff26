package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// Tipos de métrica usados en la clave de caché.
const (
	metricOverview = "overview"
	metricMRR      = "mrr"
	metricLTV      = "ltv"
	metricCohorts  = "cohorts"
	metricProducts = "products"
	metricPayments = "payments"
)

const failedPaymentsLimit = 100

// MetricsUseCase métricas de ingresos de una empresa (MRR, ingresos, churn, LTV, cohortes).
//
// Fuente de datos: repositorios de membresías, pagos y productos (read-only).
// Las métricas del "ahora" se cachean por empresa y día.
type MetricsUseCase struct {
	loader   snapshotLoader
	payments repository.PaymentRepository
	cache    ports.MetricsCache
	cfg      Config
	log      zerolog.Logger
}

// NewMetricsUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewMetricsUseCase(
	memberships repository.MembershipRepository,
	payments repository.PaymentRepository,
	products repository.ProductRepository,
	cache ports.MetricsCache,
	cfg Config,
	log zerolog.Logger,
) *MetricsUseCase {
	return &MetricsUseCase{
		loader:   snapshotLoader{memberships: memberships, payments: payments, products: products},
		payments: payments,
		cache:    cache,
		cfg:      cfg.withDefaults(),
		log:      log,
	}
}

func (uc *MetricsUseCase) key(companyID, metricType string) string {
	return CacheKey(companyID, metricType, uc.cfg.now())
}

// MRR con asOf nil devuelve el MRR actual (por estado, cacheado);
// con asOf evalúa el predicado temporal en esa fecha.
func (uc *MetricsUseCase) MRR(ctx context.Context, companyID string, asOf *time.Time) (*dto.MRRDTO, error) {
	compute := func() (*dto.MRRDTO, error) {
		snap, err := uc.loader.load(ctx, companyID, partsMRR)
		if err != nil {
			return nil, fmt.Errorf("metrics.MRR: %w", err)
		}
		out := &dto.MRRDTO{MRR: metrics.MRR(snap.memberships, snap.planIndex(), asOf)}
		if asOf != nil {
			out.AsOf = asOf.UTC().Format("2006-01-02")
		}
		return out, nil
	}
	if asOf != nil {
		return compute()
	}
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, uc.key(companyID, metricMRR), compute)
}

// TotalRevenue ingresos succeeded, opcionalmente acotados a una ventana inclusiva.
func (uc *MetricsUseCase) TotalRevenue(ctx context.Context, companyID string, window *metrics.Window) (decimal.Decimal, error) {
	if window != nil && window.End.Before(window.Start) {
		return decimal.Zero, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	snap, err := uc.loader.load(ctx, companyID, partsRevenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metrics.TotalRevenue: %w", err)
	}
	return metrics.TotalRevenue(snap.payments, window), nil
}

// RevenueTimeSeries serie de ingresos en [start, end] agrupada por bucket.
func (uc *MetricsUseCase) RevenueTimeSeries(
	ctx context.Context,
	companyID string,
	start, end time.Time,
	bucket metrics.Bucket,
) (*dto.RevenueSeriesDTO, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	snap, err := uc.loader.load(ctx, companyID, partsRevenue)
	if err != nil {
		return nil, fmt.Errorf("metrics.RevenueTimeSeries: %w", err)
	}

	points := metrics.RevenueTimeSeries(snap.payments, start, end, bucket)
	series := make([]dto.RevenuePointDTO, 0, len(points))
	for _, p := range points {
		series = append(series, dto.RevenuePointDTO{Date: p.Key, Revenue: p.Revenue})
	}
	return &dto.RevenueSeriesDTO{
		StartDate:    start.UTC().Format("2006-01-02"),
		EndDate:      end.UTC().Format("2006-01-02"),
		Interval:     string(bucket),
		TotalRevenue: metrics.TotalRevenue(snap.payments, &metrics.Window{Start: start, End: end}),
		Series:       series,
	}, nil
}

// RevenueGrowth ingresos de la ventana contra la ventana anterior de igual duración.
func (uc *MetricsUseCase) RevenueGrowth(ctx context.Context, companyID string, window metrics.Window) (*dto.RevenueGrowthDTO, error) {
	if window.End.Before(window.Start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	snap, err := uc.loader.load(ctx, companyID, partsRevenue)
	if err != nil {
		return nil, fmt.Errorf("metrics.RevenueGrowth: %w", err)
	}
	prev := window.Previous()
	current := metrics.TotalRevenue(snap.payments, &window)
	previous := metrics.TotalRevenue(snap.payments, &prev)
	return &dto.RevenueGrowthDTO{
		Current:  current,
		Previous: previous,
		Growth:   metrics.RevenueGrowth(current, previous),
	}, nil
}

// ARPU ingreso promedio por miembro activo (MRR actual / miembros active o trialing).
func (uc *MetricsUseCase) ARPU(ctx context.Context, companyID string) (decimal.Decimal, error) {
	snap, err := uc.loader.load(ctx, companyID, partsMRR)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metrics.ARPU: %w", err)
	}
	mrr := metrics.MRR(snap.memberships, snap.planIndex(), nil)
	return metrics.ARPU(mrr, metrics.CountActiveMembers(snap.memberships)), nil
}

// ChurnRate tasa de churn en [start, end].
func (uc *MetricsUseCase) ChurnRate(ctx context.Context, companyID string, start, end time.Time) (*dto.ChurnDTO, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	ms, err := uc.loader.memberships.ListByCompany(ctx, companyID, repository.MembershipFilter{StartedBefore: &end})
	if err != nil {
		return nil, fmt.Errorf("metrics.ChurnRate: %w", err)
	}
	return &dto.ChurnDTO{
		ChurnRate: metrics.ChurnRate(ms, start, end),
		StartDate: start.UTC().Format("2006-01-02"),
		EndDate:   end.UTC().Format("2006-01-02"),
	}, nil
}

// AverageLifespan vida media en meses de las membresías dadas de baja.
func (uc *MetricsUseCase) AverageLifespan(ctx context.Context, companyID string) (decimal.Decimal, error) {
	ms, err := uc.loader.memberships.ListByCompany(ctx, companyID, repository.MembershipFilter{
		Statuses: []string{entity.MembershipCancelled, entity.MembershipCanceled, entity.MembershipExpired},
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("metrics.AverageLifespan: %w", err)
	}
	return metrics.AverageLifespanMonths(ms, uc.cfg.Heuristics).Round(2), nil
}

// LTV valor de vida del cliente (cacheado).
func (uc *MetricsUseCase) LTV(ctx context.Context, companyID string) (*dto.LTVDTO, error) {
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, uc.key(companyID, metricLTV), func() (*dto.LTVDTO, error) {
		snap, err := uc.loader.load(ctx, companyID, partsMRR)
		if err != nil {
			return nil, fmt.Errorf("metrics.LTV: %w", err)
		}
		s := summarize(snap, uc.cfg.now(), uc.cfg.Heuristics)
		return &dto.LTVDTO{LTV: s.ltv, ARPU: s.arpu, AverageLifespanMonths: s.lifespan.Round(2)}, nil
	})
}

// Cohorts retención de las cohortes de los últimos `count` meses (0 = valor configurado).
func (uc *MetricsUseCase) Cohorts(ctx context.Context, companyID string, count int) ([]dto.CohortDTO, error) {
	if count <= 0 {
		count = uc.cfg.CohortCount
	}
	if count > maxCohortCount {
		return nil, fmt.Errorf("%w: máximo %d cohortes", domain.ErrInvalidInput, maxCohortCount)
	}
	key := uc.key(companyID, metricCohorts+"-"+strconv.Itoa(count))
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, key, func() ([]dto.CohortDTO, error) {
		ms, err := uc.loader.memberships.ListByCompany(ctx, companyID, repository.MembershipFilter{})
		if err != nil {
			return nil, fmt.Errorf("metrics.Cohorts: %w", err)
		}
		return cohortDTOs(metrics.Cohorts(ms, uc.cfg.now(), count)), nil
	})
}

// MemberGrowth evolución mensual de miembros activos, nuevos y perdidos.
func (uc *MetricsUseCase) MemberGrowth(ctx context.Context, companyID string, months int) ([]dto.MemberGrowthPointDTO, error) {
	if months <= 0 {
		months = 12
	}
	if months > maxGrowthMonths {
		return nil, fmt.Errorf("%w: máximo %d meses", domain.ErrInvalidInput, maxGrowthMonths)
	}
	ms, err := uc.loader.memberships.ListByCompany(ctx, companyID, repository.MembershipFilter{})
	if err != nil {
		return nil, fmt.Errorf("metrics.MemberGrowth: %w", err)
	}
	points := metrics.MemberGrowth(ms, uc.cfg.now(), months)
	out := make([]dto.MemberGrowthPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, dto.MemberGrowthPointDTO{
			Month:   p.Key,
			Label:   p.Label,
			Members: p.Members,
			New:     p.New,
			Churned: p.Churned,
		})
	}
	return out, nil
}

// Overview resumen del dashboard (cacheado).
func (uc *MetricsUseCase) Overview(ctx context.Context, companyID string) (*dto.OverviewDTO, error) {
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, uc.key(companyID, metricOverview), func() (*dto.OverviewDTO, error) {
		snap, err := uc.loader.load(ctx, companyID, snapshotParts{memberships: true, payments: true, plans: true})
		if err != nil {
			return nil, fmt.Errorf("metrics.Overview: %w", err)
		}
		return buildOverview(snap, uc.cfg.now(), uc.cfg.Heuristics), nil
	})
}

// ProductPerformance desempeño por producto, ordenado por ingresos (cacheado).
func (uc *MetricsUseCase) ProductPerformance(ctx context.Context, companyID string) ([]dto.ProductPerformanceDTO, error) {
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, uc.key(companyID, metricProducts), func() ([]dto.ProductPerformanceDTO, error) {
		snap, err := uc.loader.load(ctx, companyID, partsAll)
		if err != nil {
			return nil, fmt.Errorf("metrics.ProductPerformance: %w", err)
		}
		return productDTOs(metrics.ProductsPerformance(snap.products, snap.plans, snap.memberships, snap.payments)), nil
	})
}

// PaymentStats tasa de éxito y ticket promedio de todos los cobros (cacheado).
func (uc *MetricsUseCase) PaymentStats(ctx context.Context, companyID string) (*dto.PaymentStatsDTO, error) {
	return cacheAside(ctx, uc.cache, uc.cfg.CacheTTL, uc.log, uc.key(companyID, metricPayments), func() (*dto.PaymentStatsDTO, error) {
		snap, err := uc.loader.load(ctx, companyID, partsRevenue)
		if err != nil {
			return nil, fmt.Errorf("metrics.PaymentStats: %w", err)
		}
		s := metrics.SummarizePayments(snap.payments)
		return &dto.PaymentStatsDTO{
			TotalPayments: s.Total,
			Succeeded:     s.Succeeded,
			Failed:        s.Failed,
			SuccessRate:   s.SuccessRate,
			AverageValue:  s.AverageValue,
			TotalAmount:   s.TotalAmount,
		}, nil
	})
}

// FailedPayments los pagos fallidos más recientes y sus agregados.
func (uc *MetricsUseCase) FailedPayments(ctx context.Context, companyID string) (*dto.FailedPaymentsDTO, error) {
	var (
		list []repository.FailedPaymentResult
		all  []*entity.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if list, err = uc.payments.ListFailed(gctx, companyID, failedPaymentsLimit); err != nil {
			return fmt.Errorf("listado: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		all, err = uc.payments.ListByCompany(gctx, companyID, repository.PaymentFilter{Statuses: []string{entity.PaymentFailed}})
		if err != nil {
			return fmt.Errorf("agregados: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("metrics.FailedPayments: %w", err)
	}

	stats := metrics.SummarizeFailed(all, uc.cfg.now())
	out := &dto.FailedPaymentsDTO{
		Payments:      make([]dto.FailedPaymentDTO, 0, len(list)),
		TotalFailed:   stats.TotalFailed,
		TotalAmount:   stats.TotalAmount,
		UniqueMembers: stats.UniqueMembers,
		RecentFailed:  stats.Recent,
	}
	for _, r := range list {
		out.Payments = append(out.Payments, dto.FailedPaymentDTO{
			ID:             r.Payment.ID,
			MemberID:       r.Payment.MemberID,
			MemberEmail:    r.MemberEmail,
			MemberUsername: r.MemberUsername,
			Amount:         r.Payment.Amount,
			Currency:       r.Payment.Currency,
			PaymentDate:    r.Payment.PaymentDate,
		})
	}
	return out, nil
}
