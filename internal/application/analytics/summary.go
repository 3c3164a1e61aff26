package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
)

// companySummary métricas de cabecera de una empresa en un instante.
type companySummary struct {
	mrr           decimal.Decimal
	activeMembers int
	arpu          decimal.Decimal
	churnRate     decimal.Decimal // ventana [now-1 mes, now]
	lifespan      decimal.Decimal
	ltv           decimal.Decimal
}

func summarize(snap *snapshot, now time.Time, h metrics.Heuristics) companySummary {
	plans := snap.planIndex()
	s := companySummary{
		mrr:           metrics.MRR(snap.memberships, plans, nil),
		activeMembers: metrics.CountActiveMembers(snap.memberships),
		churnRate:     metrics.ChurnRate(snap.memberships, now.AddDate(0, -1, 0), now),
		lifespan:      metrics.AverageLifespanMonths(snap.memberships, h),
	}
	s.arpu = metrics.ARPU(s.mrr, s.activeMembers)
	s.ltv = metrics.LTV(s.arpu, s.lifespan)
	return s
}

// buildOverview arma el resumen del dashboard.
// El crecimiento de MRR compara el MRR en now contra el MRR de hace un mes,
// ambos evaluados con el predicado temporal.
func buildOverview(snap *snapshot, now time.Time, h metrics.Heuristics) *dto.OverviewDTO {
	s := summarize(snap, now, h)
	plans := snap.planIndex()
	monthAgo := now.AddDate(0, -1, 0)
	twoMonthsAgo := now.AddDate(0, -2, 0)

	mrrNow := metrics.MRR(snap.memberships, plans, &now)
	mrrPrev := metrics.MRR(snap.memberships, plans, &monthAgo)

	activeNow := metrics.ActiveSetAt(snap.memberships, now).Len()
	activePrev := metrics.ActiveSetAt(snap.memberships, monthAgo).Len()

	prevChurn := metrics.ChurnRate(snap.memberships, twoMonthsAgo, monthAgo)

	return &dto.OverviewDTO{
		MRR:           s.mrr,
		MRRGrowth:     metrics.RevenueGrowth(mrrNow, mrrPrev),
		TotalRevenue:  metrics.TotalRevenue(snap.payments, nil),
		ActiveMembers: s.activeMembers,
		MemberGrowth:  metrics.RevenueGrowth(decimal.NewFromInt(int64(activeNow)), decimal.NewFromInt(int64(activePrev))),
		ChurnRate:     s.churnRate,
		ChurnChange:   s.churnRate.Sub(prevChurn).Round(1),
		LTV:           s.ltv,
		ARPU:          s.arpu,
		GeneratedAt:   now,
	}
}

func cohortDTOs(cohorts []metrics.Cohort) []dto.CohortDTO {
	out := make([]dto.CohortDTO, 0, len(cohorts))
	for _, c := range cohorts {
		out = append(out, dto.CohortDTO{
			Cohort: c.Key,
			Label:  c.Label,
			Size:   c.Size,
			Month0: c.Retention[0],
			Month1: c.Retention[1],
			Month2: c.Retention[2],
			Month3: c.Retention[3],
			Month4: c.Retention[4],
			Month5: c.Retention[5],
		})
	}
	return out
}

func productDTOs(perf []metrics.ProductPerformance) []dto.ProductPerformanceDTO {
	out := make([]dto.ProductPerformanceDTO, 0, len(perf))
	for _, p := range perf {
		out = append(out, dto.ProductPerformanceDTO{
			ProductID:     p.Product.ID,
			Name:          p.Product.Name,
			IsActive:      p.Product.IsActive,
			PlanCount:     p.PlanCount,
			Revenue:       p.Revenue,
			MRR:           p.MRR,
			ActiveMembers: p.ActiveMembers,
			TotalMembers:  p.TotalMembers,
			ChurnRate:     p.ChurnRate,
		})
	}
	return out
}
