package http_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Revenue-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria para montar la app completa en los tests de handlers
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu          sync.Mutex
	companies   map[string]*entity.Company
	members     []*entity.Member
	memberships []*entity.Membership
	payments    []*entity.Payment
	products    []*entity.Product
	plans       []*entity.Plan
	analytics   map[string]*entity.MemberAnalytics
	benchmarks  map[string]*entity.BenchmarkData
	benchErr    error
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// newMemStore 3 miembros activos a 49/mes y uno cancelado en mayo.
func newMemStore() *memStore {
	s := &memStore{
		companies:  map[string]*entity.Company{testCompanyID: {ID: testCompanyID, ExternalID: "biz_1", Name: "Acme Fitness"}},
		analytics:  map[string]*entity.MemberAnalytics{},
		benchmarks: map[string]*entity.BenchmarkData{},
		products:   []*entity.Product{{ID: "prod-1", CompanyID: testCompanyID, Name: "Fitness Club", IsActive: true}},
		plans:      []*entity.Plan{{ID: "p1", ProductID: "prod-1", Price: decimal.NewFromInt(49), BillingPeriod: "monthly"}},
	}
	for i, id := range []string{"m1", "m2", "m3", "m4"} {
		s.members = append(s.members, &entity.Member{
			ID: id, CompanyID: testCompanyID, Email: id + "@example.com", Username: id, CreatedAt: day("2024-01-10"),
		})
		ms := &entity.Membership{
			ID: "ms-" + id, CompanyID: testCompanyID, MemberID: id, ProductID: "prod-1", PlanID: "p1",
			Status: entity.MembershipActive, StartDate: day("2024-01-10"),
		}
		if i == 3 {
			end := day("2024-05-20")
			ms.Status, ms.EndDate = entity.MembershipCancelled, &end
		}
		s.memberships = append(s.memberships, ms)
		s.payments = append(s.payments, &entity.Payment{
			ID: "pay-" + id, CompanyID: testCompanyID, MemberID: id, Amount: decimal.NewFromInt(49),
			Status: entity.PaymentSucceeded, PaymentDate: day("2024-05-10"),
		})
	}
	return s
}

type companyRepo struct{ *memStore }

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if c, ok := r.companies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (r companyRepo) GetByExternalID(_ context.Context, externalID string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.ExternalID == externalID {
			return c, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

type memberRepo struct{ *memStore }

func (r memberRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Member, error) {
	var out []*entity.Member
	for _, m := range r.members {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memberRepo) GetByID(_ context.Context, companyID, memberID string) (*entity.Member, error) {
	for _, m := range r.members {
		if m.ID == memberID && m.CompanyID == companyID {
			return m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r memberRepo) Search(ctx context.Context, companyID, q string) ([]*entity.Member, error) {
	all, _ := r.ListByCompany(ctx, companyID)
	var out []*entity.Member
	for _, m := range all {
		if strings.Contains(m.Email, strings.ToLower(q)) {
			out = append(out, m)
		}
	}
	return out, nil
}

type membershipRepo struct{ *memStore }

func (r membershipRepo) ListByCompany(_ context.Context, companyID string, f repository.MembershipFilter) ([]*entity.Membership, error) {
	var out []*entity.Membership
	for _, m := range r.memberships {
		if m.CompanyID != companyID || (f.MemberID != "" && m.MemberID != f.MemberID) {
			continue
		}
		if f.StartedBefore != nil && m.StartDate.After(*f.StartedBefore) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStr(f.Statuses, m.Status) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type paymentRepo struct{ *memStore }

func (r paymentRepo) ListByCompany(_ context.Context, companyID string, f repository.PaymentFilter) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.CompanyID != companyID || (f.MemberID != "" && p.MemberID != f.MemberID) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStr(f.Statuses, p.Status) {
			continue
		}
		if (f.From != nil && p.PaymentDate.Before(*f.From)) || (f.To != nil && p.PaymentDate.After(*f.To)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r paymentRepo) ListFailed(context.Context, string, int) ([]repository.FailedPaymentResult, error) {
	return nil, nil
}

type productRepo struct{ *memStore }

func (r productRepo) ListByCompany(context.Context, string) ([]*entity.Product, error) {
	return r.products, nil
}

func (r productRepo) ListPlansByProduct(_ context.Context, productID string) ([]*entity.Plan, error) {
	var out []*entity.Plan
	for _, p := range r.plans {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) ListPlansByCompany(context.Context, string) ([]*entity.Plan, error) {
	return r.plans, nil
}

type analyticsRepo struct{ *memStore }

func (r analyticsRepo) UpsertBatch(_ context.Context, rows []*entity.MemberAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.analytics[row.MemberID] = row
	}
	return nil
}

func (r analyticsRepo) GetByMember(_ context.Context, _, memberID string) (*entity.MemberAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.analytics[memberID], nil
}

func (r analyticsRepo) ListByCompany(context.Context, string) ([]*entity.MemberAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.MemberAnalytics, 0, len(r.analytics))
	for _, row := range r.analytics {
		out = append(out, row)
	}
	return out, nil
}

type benchmarkRepo struct{ *memStore }

func (r benchmarkRepo) Get(_ context.Context, niche, revenueRange string) (*entity.BenchmarkData, error) {
	return r.benchmarks[niche+"/"+revenueRange], nil
}

func (r benchmarkRepo) Update(_ context.Context, niche, revenueRange string, fn repository.BenchmarkUpdateFunc) (*entity.BenchmarkData, error) {
	if r.benchErr != nil {
		return nil, r.benchErr
	}
	key := niche + "/" + revenueRange
	current, ok := r.benchmarks[key]
	if !ok {
		current = &entity.BenchmarkData{ID: key, Niche: niche, RevenueRange: revenueRange}
	}
	next, applied, err := fn(current)
	if err != nil {
		return nil, err
	}
	if applied {
		r.benchmarks[key] = next
	}
	return next, nil
}

type fakePDF struct{}

func (fakePDF) GenerateOverviewPDF(context.Context, *ports.OverviewReport) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("caído")

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// buildApp monta el router completo sobre el store en memoria.
func buildApp(s *memStore) *fiber.App {
	cfg := analytics.Config{ScoringWorkers: 2, Now: func() time.Time { return testNow }}
	log := zerolog.Nop()

	metricsUC := analytics.NewMetricsUseCase(membershipRepo{s}, paymentRepo{s}, productRepo{s}, nil, cfg, log)
	memberUC := analytics.NewMemberAnalyticsUseCase(memberRepo{s}, membershipRepo{s}, paymentRepo{s}, analyticsRepo{s}, nil, nil, cfg, log)
	benchUC := analytics.NewBenchmarkUseCase(companyRepo{s}, benchmarkRepo{s}, membershipRepo{s}, paymentRepo{s}, productRepo{s}, cfg, log)
	reportUC := analytics.NewReportUseCase(companyRepo{s}, metricsUC, fakePDF{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		MetricsUC:   metricsUC,
		MemberUC:    memberUC,
		BenchmarkUC: benchUC,
		ReportUC:    reportUC,
		Companies:   companyRepo{s},
		JWTSecret:   testJWTSecret,
		Log:         log,
		Health:      apphttp.NewHealthHandler(fakePinger{}, nil),
	})
	return app
}
