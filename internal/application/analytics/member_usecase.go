package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// Criterios de orden del listado de miembros.
const (
	SortRevenue   = "revenue"
	SortChurnRisk = "churn_risk"
	SortRecent    = "recent"
)

// MemberAnalyticsUseCase analítica por miembro: recálculo masivo, listado y perfil.
type MemberAnalyticsUseCase struct {
	members     repository.MemberRepository
	memberships repository.MembershipRepository
	payments    repository.PaymentRepository
	analytics   repository.MemberAnalyticsRepository
	cache       ports.MetricsCache
	recorder    ports.RecomputeRecorder
	cfg         Config
	log         zerolog.Logger
}

// NewMemberAnalyticsUseCase construye el caso de uso. cache y recorder pueden ser nil.
func NewMemberAnalyticsUseCase(
	members repository.MemberRepository,
	memberships repository.MembershipRepository,
	payments repository.PaymentRepository,
	analytics repository.MemberAnalyticsRepository,
	cache ports.MetricsCache,
	recorder ports.RecomputeRecorder,
	cfg Config,
	log zerolog.Logger,
) *MemberAnalyticsUseCase {
	return &MemberAnalyticsUseCase{
		members:     members,
		memberships: memberships,
		payments:    payments,
		analytics:   analytics,
		cache:       cache,
		recorder:    recorder,
		cfg:         cfg.withDefaults(),
		log:         log,
	}
}

// RecomputeMemberAnalytics recalcula la analítica de todos los miembros de la empresa.
//
//  1. Lee el snapshot una sola vez (miembros, membresías, pagos) en paralelo.
//  2. Puntúa cada miembro en un pool acotado a ScoringWorkers goroutines.
//  3. Persiste todo con un único UpsertBatch.
//  4. Invalida el caché de métricas de la empresa.
func (uc *MemberAnalyticsUseCase) RecomputeMemberAnalytics(ctx context.Context, companyID string) (*dto.RecomputeResultDTO, error) {
	started := time.Now()
	now := uc.cfg.now()

	// ── 1. Snapshot ───────────────────────────────────────────────────────────
	var (
		members     []*entity.Member
		memberships []*entity.Membership
		payments    []*entity.Payment
	)
	loadGroup, loadCtx := errgroup.WithContext(ctx)
	loadGroup.Go(func() (err error) {
		members, err = uc.members.ListByCompany(loadCtx, companyID)
		return err
	})
	loadGroup.Go(func() (err error) {
		memberships, err = uc.memberships.ListByCompany(loadCtx, companyID, repository.MembershipFilter{})
		return err
	})
	loadGroup.Go(func() (err error) {
		payments, err = uc.payments.ListByCompany(loadCtx, companyID, repository.PaymentFilter{})
		return err
	})
	if err := loadGroup.Wait(); err != nil {
		return nil, fmt.Errorf("analytics.Recompute: snapshot: %w", err)
	}

	membershipsBy := metrics.GroupMembershipsByMember(memberships)
	paymentsBy := make(map[string][]*entity.Payment, len(members))
	for _, p := range payments {
		paymentsBy[p.MemberID] = append(paymentsBy[p.MemberID], p)
	}

	// ── 2. Puntuación en paralelo ────────────────────────────────────────────
	rows := make([]*entity.MemberAnalytics, len(members))
	scoreGroup, scoreCtx := errgroup.WithContext(ctx)
	scoreGroup.SetLimit(uc.cfg.ScoringWorkers)
	for i, m := range members {
		scoreGroup.Go(func() error {
			if err := scoreCtx.Err(); err != nil {
				return err
			}
			row := metrics.BuildMemberAnalytics(metrics.MemberInput{
				Member:      m,
				Payments:    paymentsBy[m.ID],
				Memberships: membershipsBy[m.ID],
			}, now, uc.cfg.Heuristics)
			row.ID = uuid.NewString()
			rows[i] = row
			return nil
		})
	}
	if err := scoreGroup.Wait(); err != nil {
		return nil, fmt.Errorf("analytics.Recompute: puntuación: %w", err)
	}

	// ── 3. Persistencia ──────────────────────────────────────────────────────
	if err := uc.analytics.UpsertBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("analytics.Recompute: guardar: %w", err)
	}

	// ── 4. Invalidar caché ───────────────────────────────────────────────────
	if uc.cache != nil {
		if err := uc.cache.InvalidateCompany(ctx, companyID); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el caché de métricas")
		}
	}

	elapsed := time.Since(started)
	if uc.recorder != nil {
		uc.recorder.ObserveRecompute(elapsed, len(rows))
	}
	uc.log.Info().
		Str("company_id", companyID).
		Int("members", len(rows)).
		Dur("elapsed", elapsed).
		Msg("analítica de miembros recalculada")

	return &dto.RecomputeResultDTO{CompanyID: companyID, Members: len(rows), CalculatedAt: now}, nil
}

// ListMembers listado de miembros con su analítica, filtrado, ordenado y paginado.
// Los miembros sin analítica calculada solo aparecen con risk=all.
func (uc *MemberAnalyticsUseCase) ListMembers(ctx context.Context, companyID string, req dto.MemberListRequest) (*dto.MemberListDTO, error) {
	req.Normalize()

	riskLo, riskHi, filterRisk := 0, 100, false
	if !strings.EqualFold(req.Risk, "all") {
		lo, hi, ok := metrics.RiskBounds(req.Risk)
		if !ok {
			return nil, fmt.Errorf("%w: risk debe ser all, high, medium o low", domain.ErrInvalidInput)
		}
		riskLo, riskHi, filterRisk = lo, hi, true
	}
	switch req.Sort {
	case SortRevenue, SortChurnRisk, SortRecent:
	default:
		return nil, fmt.Errorf("%w: sort debe ser revenue, churn_risk o recent", domain.ErrInvalidInput)
	}

	var (
		members []*entity.Member
		rows    []*entity.MemberAnalytics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if req.Search != "" {
			members, err = uc.members.Search(gctx, companyID, req.Search)
		} else {
			members, err = uc.members.ListByCompany(gctx, companyID)
		}
		return err
	})
	g.Go(func() (err error) {
		rows, err = uc.analytics.ListByCompany(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics.ListMembers: %w", err)
	}

	byMember := make(map[string]*entity.MemberAnalytics, len(rows))
	for _, r := range rows {
		byMember[r.MemberID] = r
	}

	summaries := make([]dto.MemberSummaryDTO, 0, len(members))
	for _, m := range members {
		a := byMember[m.ID]
		if filterRisk && (a == nil || a.ChurnRiskScore < riskLo || a.ChurnRiskScore > riskHi) {
			continue
		}
		summaries = append(summaries, memberSummary(m, a))
	}
	sortSummaries(summaries, req.Sort)

	total := len(summaries)
	from := min((req.Page-1)*req.Limit, total)
	to := min(from+req.Limit, total)
	return &dto.MemberListDTO{
		Members: summaries[from:to],
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
	}, nil
}

// MemberProfile ficha del miembro: analítica, membresías y pagos.
// Si la analítica aún no fue calculada se calcula al vuelo (sin persistir).
func (uc *MemberAnalyticsUseCase) MemberProfile(ctx context.Context, companyID, memberID string) (*dto.MemberProfileDTO, error) {
	member, err := uc.members.GetByID(ctx, companyID, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("analytics.MemberProfile: %w", err)
	}

	var (
		row         *entity.MemberAnalytics
		memberships []*entity.Membership
		payments    []*entity.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		row, err = uc.analytics.GetByMember(gctx, companyID, memberID)
		return err
	})
	g.Go(func() (err error) {
		memberships, err = uc.memberships.ListByCompany(gctx, companyID, repository.MembershipFilter{MemberID: memberID})
		return err
	})
	g.Go(func() (err error) {
		payments, err = uc.payments.ListByCompany(gctx, companyID, repository.PaymentFilter{MemberID: memberID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics.MemberProfile: %w", err)
	}

	if row == nil {
		row = metrics.BuildMemberAnalytics(metrics.MemberInput{
			Member:      member,
			Payments:    payments,
			Memberships: memberships,
		}, uc.cfg.now(), uc.cfg.Heuristics)
	}

	out := &dto.MemberProfileDTO{
		Member:      memberSummary(member, row),
		Memberships: make([]dto.MembershipDTO, 0, len(memberships)),
		Payments:    make([]dto.PaymentDTO, 0, len(payments)),
	}
	for _, ms := range memberships {
		out.Memberships = append(out.Memberships, dto.MembershipDTO{
			ID:                ms.ID,
			ProductID:         ms.ProductID,
			PlanID:            ms.PlanID,
			Status:            ms.Status,
			StartDate:         ms.StartDate,
			EndDate:           ms.EndDate,
			CancelAtPeriodEnd: ms.CancelAtPeriodEnd,
		})
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentDTO{
			ID:          p.ID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Status:      p.Status,
			PaymentDate: p.PaymentDate,
		})
	}
	return out, nil
}

func memberSummary(m *entity.Member, a *entity.MemberAnalytics) dto.MemberSummaryDTO {
	s := dto.MemberSummaryDTO{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		JoinedAt:  m.CreatedAt,
		ChurnRisk: metrics.ChurnRiskLabel(0),
	}
	if a == nil {
		return s
	}
	calculatedAt := a.CalculatedAt
	s.TotalRevenue = a.TotalRevenue
	s.TotalPayments = a.TotalPayments
	s.AveragePayment = a.AveragePayment
	s.LifetimeMonths = a.LifetimeMonths
	s.LastPaymentAt = a.LastPaymentAt
	s.ChurnRiskScore = a.ChurnRiskScore
	s.ChurnRisk = metrics.ChurnRiskLabel(a.ChurnRiskScore)
	s.EngagementScore = a.EngagementScore
	s.CalculatedAt = &calculatedAt
	return s
}

func sortSummaries(s []dto.MemberSummaryDTO, by string) {
	sort.SliceStable(s, func(i, j int) bool {
		switch by {
		case SortChurnRisk:
			return s[i].ChurnRiskScore > s[j].ChurnRiskScore
		case SortRecent:
			return s[i].JoinedAt.After(s[j].JoinedAt)
		default:
			return s[i].TotalRevenue.GreaterThan(s[j].TotalRevenue)
		}
	})
}
